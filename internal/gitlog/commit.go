// Package gitlog reads commit history from local git repositories.
package gitlog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format is the git log pretty format parsed by ParseLine:
// hash, strict ISO 8601 author date, author name, subject.
const Format = "%H|%aI|%an|%s"

// Commit is a single commit read from history.
type Commit struct {
	Hash    string    `json:"hash"`
	When    time.Time `json:"when"`
	Author  string    `json:"author"`
	Subject string    `json:"subject"`
}

// ParseError reports a log line that does not match Format.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed log line %q: %s", e.Line, e.Reason)
}

// ParseLine parses one line of `git log --pretty=format:<Format>` output.
// The subject is everything after the third separator and may contain '|'.
func ParseLine(line string) (Commit, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return Commit{}, &ParseError{Line: line, Reason: fmt.Sprintf("expected 4 fields, got %d", len(parts))}
	}
	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return Commit{}, &ParseError{Line: line, Reason: "empty hash"}
	}
	when, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
	if err != nil {
		return Commit{}, &ParseError{Line: line, Reason: "bad date: " + err.Error()}
	}
	return Commit{
		Hash:    hash,
		When:    when,
		Author:  parts[2],
		Subject: parts[3],
	}, nil
}

// ParseLog parses full log output, skipping blank lines. Lines that fail to
// parse are returned separately so callers can report them.
func ParseLog(output string) ([]Commit, []error) {
	var commits []Commit
	var errs []error
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := ParseLine(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		commits = append(commits, c)
	}
	return commits, errs
}

// Timestamps returns commit times in ascending order.
func Timestamps(commits []Commit) []time.Time {
	out := make([]time.Time, len(commits))
	for i, c := range commits {
		out[i] = c.When
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// SortOldestFirst sorts commits chronologically in place, keeping the
// relative order of commits with equal timestamps.
func SortOldestFirst(commits []Commit) {
	sort.SliceStable(commits, func(i, j int) bool { return commits[i].When.Before(commits[j].When) })
}
