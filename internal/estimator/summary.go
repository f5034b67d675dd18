package estimator

import "time"

// Summary is the presentation-ready view of an estimate.
type Summary struct {
	Gap           time.Duration `json:"gap"`
	Sessions      []Session     `json:"sessions"`
	Total         time.Duration `json:"total"`
	CurrentStreak time.Duration `json:"current_streak"`
	LastCommit    time.Time     `json:"last_commit"`
	// Ongoing is true when now is still within gap of the last commit.
	Ongoing bool `json:"ongoing"`
}

// Summarize estimates sessions for timestamps and derives totals relative to now.
func Summarize(timestamps []time.Time, gap time.Duration, now time.Time) Summary {
	sessions := Estimate(timestamps, gap)
	sum := Summary{
		Gap:           gap,
		Sessions:      sessions,
		Total:         TotalActive(sessions),
		CurrentStreak: CurrentStreak(sessions),
	}
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		sum.LastCommit = last.End
		idle := now.Sub(last.End)
		sum.Ongoing = idle >= 0 && idle <= gap
	}
	return sum
}
