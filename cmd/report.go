package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/gitlog"
	"github.com/fakeyudi/worklog/internal/repos"
	"github.com/fakeyudi/worklog/internal/report"
)

// ErrNoCommits is returned when the repository has no history at all.
var ErrNoCommits = errors.New("no commits found")

var (
	reportRepo      string
	reportDate      dateFlag
	reportToday     bool
	reportYesterday bool
	reportSince     dateFlag
	reportUntil     dateFlag
	reportAll       bool
	reportFormat    = newChoiceFlag("markdown", "json")
	reportNoCache   bool
	reportOut       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize commits per day with Gemini and write a report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		r, err := reportRange(loc)
		if err != nil {
			return err
		}
		repo, err := reportRepository()
		if err != nil {
			return err
		}

		src, err := openSource("", repo)
		if err != nil {
			return err
		}
		commits, err := readCommits(ctx, src, repo, gitlog.Query{})
		if err != nil {
			return err
		}
		if len(commits) == 0 {
			return ErrNoCommits
		}
		rememberRepo(repo)

		inRange := gitlog.Filter(commits, r, loc)
		if len(inRange) == 0 {
			fmt.Fprintln(out, "No commits found for the specified date or range.")
			return nil
		}

		summarizer, closeFn, err := newSummarizer(ctx, reportNoCache)
		if err != nil {
			return err
		}
		defer closeFn()

		builder := &report.Builder{
			Summarizer: summarizer,
			Gap:        cfg.GapThreshold(),
			Location:   loc,
			Author:     authorName(),
			Logger:     logger,
			Now:        now,
		}
		rep, err := builder.Build(ctx, repo, r, inRange)
		if err != nil {
			return err
		}

		renderer, err := report.ForFormat(reportFormat.Or(cfg.DefaultFormat))
		if err != nil {
			return err
		}
		dir := cfg.ReportsDir
		if reportOut != "" {
			dir = reportOut
		}
		path, err := report.Write(dir, rep, renderer)
		if err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", path), zap.Int("days", len(rep.Days)))

		// Print only the concise list of tasks to the console.
		for _, p := range report.AllPoints(rep) {
			fmt.Fprintf(out, "- %s\n", p)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", path)
		return nil
	},
}

// reportRange resolves the range flags. At most one kind may be given;
// with none, an interactive terminal is asked and anything else gets the
// whole history.
func reportRange(loc *time.Location) (gitlog.DateRange, error) {
	given := 0
	for _, set := range []bool{reportDate.set, reportToday, reportYesterday, reportSince.set || reportUntil.set, reportAll} {
		if set {
			given++
		}
	}
	if given > 1 {
		return gitlog.DateRange{}, fmt.Errorf("use only one of --date, --today, --yesterday, --since/--until, --all")
	}

	current := now().In(loc)
	switch {
	case reportDate.set:
		return gitlog.On(reportDate.In(loc)), nil
	case reportToday:
		return gitlog.Today(current), nil
	case reportYesterday:
		return gitlog.Yesterday(current), nil
	case reportSince.set && reportUntil.set:
		return gitlog.Between(reportSince.In(loc), reportUntil.In(loc)), nil
	case reportSince.set || reportUntil.set:
		return gitlog.DateRange{From: reportSince.In(loc), To: reportUntil.In(loc)}, nil
	case reportAll || !interactive():
		return gitlog.All(), nil
	}
	return pickRange(current, loc)
}

// pickRange asks which range to analyse.
func pickRange(current time.Time, loc *time.Location) (gitlog.DateRange, error) {
	choice := "all"
	if err := huh.NewSelect[string]().
		Title("Select analysis type").
		Options(
			huh.NewOption("All history", "all"),
			huh.NewOption("Specific date", "date"),
			huh.NewOption("Date range", "range"),
			huh.NewOption("Today", "today"),
			huh.NewOption("Yesterday", "yesterday"),
		).
		Value(&choice).
		Run(); err != nil {
		return gitlog.DateRange{}, err
	}

	switch choice {
	case "today":
		return gitlog.Today(current), nil
	case "yesterday":
		return gitlog.Yesterday(current), nil
	case "date":
		var s string
		if err := dateInput("Date (YYYY-MM-DD)", &s).Run(); err != nil {
			return gitlog.DateRange{}, err
		}
		d, err := gitlog.ParseDate(s, loc)
		if err != nil {
			return gitlog.DateRange{}, err
		}
		return gitlog.On(d), nil
	case "range":
		var from, to string
		form := huh.NewForm(huh.NewGroup(
			dateInput("Start date (YYYY-MM-DD)", &from),
			dateInput("End date (YYYY-MM-DD)", &to),
		)).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return gitlog.DateRange{}, err
		}
		a, err := gitlog.ParseDate(from, loc)
		if err != nil {
			return gitlog.DateRange{}, err
		}
		b, err := gitlog.ParseDate(to, loc)
		if err != nil {
			return gitlog.DateRange{}, err
		}
		return gitlog.Between(a, b), nil
	}
	return gitlog.All(), nil
}

// dateInput returns a huh.Input for a required date field with YYYY-MM-DD validation.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(now().Format(gitlog.DateLayout)).
		Value(value).
		Validate(func(s string) error {
			if _, err := time.Parse(gitlog.DateLayout, s); err != nil {
				return fmt.Errorf("use YYYY-MM-DD format")
			}
			return nil
		})
}

// reportRepository resolves --repo, offering the remembered repositories
// on an interactive terminal.
func reportRepository() (string, error) {
	if reportRepo != "" {
		return reportRepo, nil
	}
	if !interactive() {
		return ".", nil
	}
	store, err := repos.NewStore()
	if err != nil {
		return "", err
	}
	known, err := store.List()
	if err != nil {
		logger.Warn("reading repository list", zap.Error(err))
	}
	if len(known) == 0 {
		return ".", nil
	}

	options := []huh.Option[string]{huh.NewOption("Current directory", ".")}
	for _, r := range known {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", filepath.Base(r), r), r))
	}
	choice := "."
	if err := huh.NewSelect[string]().
		Title("Which repository?").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return "", err
	}
	return choice, nil
}

// rememberRepo adds repo to the known list. Failures are only logged.
func rememberRepo(repo string) {
	store, err := repos.NewStore()
	if err == nil {
		_, err = store.Add(repo)
	}
	if err != nil {
		logger.Warn("remembering repository", zap.String("repo", repo), zap.Error(err))
	}
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportRepo, "repo", "", "repository to summarize (default: pick or current directory)")
	f.Var(&reportDate, "date", "summarize a single date (YYYY-MM-DD)")
	f.BoolVar(&reportToday, "today", false, "summarize today")
	f.BoolVar(&reportYesterday, "yesterday", false, "summarize yesterday")
	f.Var(&reportSince, "since", "first date of the range (YYYY-MM-DD)")
	f.Var(&reportUntil, "until", "last date of the range (YYYY-MM-DD)")
	f.BoolVar(&reportAll, "all", false, "summarize the whole history")
	f.Var(reportFormat, "format", "output format: markdown or json (overrides config)")
	f.BoolVar(&reportNoCache, "no-cache", false, "always ask Gemini, ignoring cached summaries")
	f.StringVarP(&reportOut, "out", "o", "", "reports directory (overrides config)")
	rootCmd.AddCommand(reportCmd)
}
