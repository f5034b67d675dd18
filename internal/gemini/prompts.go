package gemini

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DailyReportPrompt asks for a daily work report from one day's commit messages.
func DailyReportPrompt(messages []string) string {
	return "Summarize the following git commit messages as a daily work report, " +
		"focusing on tasks completed. Messages: " + strings.Join(messages, "\n")
}

// StreakFacts is what the commentary prompt knows about the estimate.
type StreakFacts struct {
	Repo          string
	Sessions      int
	Total         time.Duration
	CurrentStreak time.Duration
	Ongoing       bool
}

// StreakPrompt asks for one line of light commentary on the work estimate.
func StreakPrompt(f StreakFacts) string {
	state := "The latest session has ended."
	if f.Ongoing {
		state = "The developer is still in the middle of the latest session."
	}
	return fmt.Sprintf("A developer's commits in the repository %q cluster into %d work sessions "+
		"totalling %s of active time. The latest session lasted %s. %s "+
		"Reply with a single short, friendly sentence of commentary. No lists, no markdown.",
		f.Repo, f.Sessions, f.Total.Round(time.Minute), f.CurrentStreak.Round(time.Minute), state)
}

var bulletRe = regexp.MustCompile(`^[*-]\s+`)

// ExtractTaskPoints returns the bullet lines of summary with their markers
// stripped. A summary without bullets becomes a single point.
func ExtractTaskPoints(summary string) []string {
	var points []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if bulletRe.MatchString(line) {
			points = append(points, strings.TrimSpace(strings.TrimLeft(line, "*-")))
		}
	}
	if len(points) == 0 {
		if s := strings.TrimSpace(summary); s != "" {
			points = []string{s}
		}
	}
	return points
}
