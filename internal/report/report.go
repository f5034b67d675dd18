// Package report builds, renders, and parses work summaries.
package report

import "time"

// WorkReport is the complete, renderable representation of a work summary.
type WorkReport struct {
	ID          string        `json:"id"`
	Repo        string        `json:"repo"`
	RepoPath    string        `json:"repo_path"`
	Range       string        `json:"range"` // e.g. "2024-03-01" or "2024-03-01_to_2024-03-07"
	GeneratedAt time.Time     `json:"generated_at"`
	Author      string        `json:"author,omitempty"`
	Days        []DaySummary  `json:"days"`
	Sessions    *SessionStats `json:"sessions,omitempty"`
}

// DaySummary is the generated summary for the commits of one calendar date.
type DaySummary struct {
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Messages []string `json:"messages"`
	Points   []string `json:"points"`
}

// SessionStats holds the work session estimate for the commits in the report.
type SessionStats struct {
	GapMinutes    int    `json:"gap_minutes"`
	Count         int    `json:"count"`
	Total         string `json:"total"`          // human-readable, e.g. "2h15m"
	Longest       string `json:"longest"`        // human-readable
	CurrentStreak string `json:"current_streak"` // human-readable
}

// AllPoints collects the task points of every day in order.
func AllPoints(r *WorkReport) []string {
	var out []string
	for _, d := range r.Days {
		out = append(out, d.Points...)
	}
	return out
}

// Messages returns the number of commit messages across all days.
func (r *WorkReport) Messages() int {
	n := 0
	for _, d := range r.Days {
		n += len(d.Messages)
	}
	return n
}
