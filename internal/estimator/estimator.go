// Package estimator clusters commit timestamps into work sessions.
//
// A session is a maximal run of commits where every consecutive gap is at
// most the configured threshold. The estimator is a pure function of its
// input; callers are responsible for supplying timestamps in ascending order.
package estimator

import "time"

// Session is a contiguous run of commits within the gap threshold.
type Session struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Commits int       `json:"commits"`
	// First and Last are the indexes of the input timestamps covered by the
	// session, both inclusive.
	First int `json:"first"`
	Last  int `json:"last"`
}

// Duration is End minus Start. A single-commit session lasts zero.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Estimate partitions timestamps into sessions in one pass. timestamps must
// be sorted ascending; unsorted input produces an unspecified result.
// A gap equal to the threshold keeps both commits in the same session.
func Estimate(timestamps []time.Time, gap time.Duration) []Session {
	if len(timestamps) == 0 {
		return nil
	}

	var sessions []Session
	cur := Session{Start: timestamps[0], End: timestamps[0], Commits: 1}
	for i := 1; i < len(timestamps); i++ {
		t := timestamps[i]
		if t.Sub(timestamps[i-1]) <= gap {
			cur.End = t
			cur.Commits++
			cur.Last = i
			continue
		}
		sessions = append(sessions, cur)
		cur = Session{Start: t, End: t, Commits: 1, First: i, Last: i}
	}
	return append(sessions, cur)
}

// TotalActive sums the duration of every session.
func TotalActive(sessions []Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration()
	}
	return total
}

// CurrentStreak is the duration of the most recent session, or zero.
func CurrentStreak(sessions []Session) time.Duration {
	if len(sessions) == 0 {
		return 0
	}
	return sessions[len(sessions)-1].Duration()
}

// Longest returns the longest session and false when there are none.
// Ties go to the earlier session.
func Longest(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.Duration() > best.Duration() {
			best = s
		}
	}
	return best, true
}
