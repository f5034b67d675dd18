package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/fakeyudi/worklog/internal/gitlog"
)

// dateFlag is a calendar date given as YYYY-MM-DD. The zone is applied
// later, once the configured timezone is known.
type dateFlag struct {
	set   bool
	year  int
	month time.Month
	day   int
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", f.year, f.month, f.day)
}

func (f *dateFlag) Set(s string) error {
	if s == "" {
		*f = dateFlag{}
		return nil
	}
	t, err := time.Parse(gitlog.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	*f = dateFlag{set: true, year: t.Year(), month: t.Month(), day: t.Day()}
	return nil
}

func (f *dateFlag) Type() string { return "date" }

// In returns midnight of the date in loc, or the zero time when unset.
func (f *dateFlag) In(loc *time.Location) time.Time {
	if !f.set {
		return time.Time{}
	}
	return time.Date(f.year, f.month, f.day, 0, 0, 0, 0, loc)
}

// choiceFlag is a string restricted to a fixed set of values. The empty
// string means "not given".
type choiceFlag struct {
	value   string
	choices []string
}

var _ pflag.Value = (*choiceFlag)(nil)

func newChoiceFlag(choices ...string) *choiceFlag {
	return &choiceFlag{choices: choices}
}

func (f *choiceFlag) String() string { return f.value }

func (f *choiceFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		f.value = ""
		return nil
	}
	for _, c := range f.choices {
		if s == c {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(f.choices, ", "))
}

func (f *choiceFlag) Type() string { return "string" }

// Or returns the flag value, or fallback when the flag was not given.
func (f *choiceFlag) Or(fallback string) string {
	if f.value == "" {
		return fallback
	}
	return f.value
}

// interactive reports whether both stdin and stdout are terminals, so
// prompts and the TUI can be shown.
func interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
