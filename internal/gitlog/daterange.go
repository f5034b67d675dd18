package gitlog

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar date format used on the command line and in
// report file names.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// All is the unbounded range.
func All() DateRange { return DateRange{} }

// On is the single day containing d.
func On(d time.Time) DateRange {
	day := midnight(d)
	return DateRange{From: day, To: day}
}

// Today is the day containing now.
func Today(now time.Time) DateRange { return On(now) }

// Yesterday is the day before the one containing now.
func Yesterday(now time.Time) DateRange { return On(midnight(now).AddDate(0, 0, -1)) }

// Between is the range from a to b inclusive. Reversed bounds are swapped.
func Between(a, b time.Time) DateRange {
	a, b = midnight(a), midnight(b)
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{From: a, To: b}
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// IsAll reports whether both bounds are open.
func (r DateRange) IsAll() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether t falls on a calendar date inside the range,
// judged in loc.
func (r DateRange) Contains(t time.Time, loc *time.Location) bool {
	day := t.In(loc).Format(DateLayout)
	if !r.From.IsZero() && day < r.From.Format(DateLayout) {
		return false
	}
	if !r.To.IsZero() && day > r.To.Format(DateLayout) {
		return false
	}
	return true
}

// Label names the range for titles and file names.
func (r DateRange) Label() string {
	switch {
	case r.IsAll():
		return "all"
	case r.To.IsZero():
		return "since_" + r.From.Format(DateLayout)
	case r.From.IsZero():
		return "until_" + r.To.Format(DateLayout)
	case r.From.Format(DateLayout) == r.To.Format(DateLayout):
		return r.From.Format(DateLayout)
	default:
		return r.From.Format(DateLayout) + "_to_" + r.To.Format(DateLayout)
	}
}

// Filter keeps the commits whose date in loc falls inside r.
func Filter(commits []Commit, r DateRange, loc *time.Location) []Commit {
	var out []Commit
	for _, c := range commits {
		if r.Contains(c.When, loc) {
			out = append(out, c)
		}
	}
	return out
}

// DayGroup is the commits made on one calendar date.
type DayGroup struct {
	Date    string
	Commits []Commit
}

// Messages returns the commit subjects of the day in order.
func (g DayGroup) Messages() []string {
	out := make([]string, len(g.Commits))
	for i, c := range g.Commits {
		out[i] = c.Subject
	}
	return out
}

// GroupByDate groups commits by their calendar date in loc. Groups are
// chronological; commits keep their input order within a day.
func GroupByDate(commits []Commit, loc *time.Location) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup
	for _, c := range commits {
		day := c.When.In(loc).Format(DateLayout)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Date: day})
		}
		groups[i].Commits = append(groups[i].Commits, c)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
