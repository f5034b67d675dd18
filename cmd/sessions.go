package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/estimator"
	"github.com/fakeyudi/worklog/internal/gemini"
	"github.com/fakeyudi/worklog/internal/gitlog"
	"github.com/fakeyudi/worklog/internal/watch"
)

var (
	sessionsRepo       string
	sessionsGap        int
	sessionsSince      dateFlag
	sessionsUntil      dateFlag
	sessionsAuthor     string
	sessionsBackend    = newChoiceFlag(gitlog.BackendExec, gitlog.BackendGoGit)
	sessionsJSON       bool
	sessionsCommentary bool
	sessionsWatch      bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Estimate work sessions from commit timestamps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("gap") && sessionsGap <= 0 {
			return fmt.Errorf("--gap must be positive")
		}
		ctx := cmd.Context()
		if !sessionsWatch {
			return printSessions(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		w, err := watch.New(sessionsRepo, logger)
		if err != nil {
			return err
		}
		if err := printSessions(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return err
		}
		return w.Run(ctx, func() {
			fmt.Fprintln(cmd.OutOrStdout())
			if err := printSessions(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				logger.Warn("refresh failed", zap.Error(err))
			}
		})
	},
}

// sessionsRange is the --since/--until window in loc. It is applied to
// author dates after reading, since git's own --since/--until compare
// committer dates.
func sessionsRange(loc *time.Location) gitlog.DateRange {
	return gitlog.DateRange{From: sessionsSince.In(loc), To: sessionsUntil.In(loc)}
}

func printSessions(ctx context.Context, out, errOut io.Writer) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	gap := cfg.GapThreshold()
	if sessionsGap > 0 {
		gap = time.Duration(sessionsGap) * time.Minute
	}

	src, err := openSource(sessionsBackend.value, sessionsRepo)
	if err != nil {
		return err
	}
	commits, err := readCommits(ctx, src, sessionsRepo, gitlog.Query{Author: sessionsAuthor})
	if err != nil {
		return err
	}
	commits = gitlog.Filter(commits, sessionsRange(loc), loc)

	current := now()
	sum := estimator.Summarize(gitlog.Timestamps(commits), gap, current)
	repoName := repoLabel(sessionsRepo)

	if sessionsJSON {
		return writeSessionsJSON(out, repoName, sum, loc)
	}

	if len(sum.Sessions) == 0 {
		fmt.Fprintln(out, "no commits found")
		return nil
	}
	writeSessionsText(out, repoName, sum, current, loc)

	if sessionsCommentary {
		line, err := commentary(ctx, repoName, sum)
		if err != nil {
			fmt.Fprintf(errOut, "warning: commentary unavailable: %v\n", err)
		} else {
			fmt.Fprintf(out, "\n%s\n", line)
		}
	}
	return nil
}

func writeSessionsText(out io.Writer, repo string, sum estimator.Summary, current time.Time, loc *time.Location) {
	fmt.Fprintf(out, "Work sessions in %s (gap %s)\n\n", repo, shortDuration(sum.Gap))
	for i, s := range sum.Sessions {
		start, end := s.Start.In(loc), s.End.In(loc)
		endLayout := "15:04"
		if start.Format(gitlog.DateLayout) != end.Format(gitlog.DateLayout) {
			endLayout = "2006-01-02 15:04"
		}
		fmt.Fprintf(out, "  %3d. %s → %s  %7s  %s\n",
			i+1,
			start.Format("2006-01-02 15:04"),
			end.Format(endLayout),
			shortDuration(s.Duration()),
			commitsLabel(s.Commits),
		)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Sessions:          %d\n", len(sum.Sessions))
	fmt.Fprintf(out, "Total active time: %s\n", shortDuration(sum.Total))
	if longest, ok := estimator.Longest(sum.Sessions); ok {
		fmt.Fprintf(out, "Longest session:   %s\n", shortDuration(longest.Duration()))
	}
	fmt.Fprintf(out, "Current streak:    %s\n", shortDuration(sum.CurrentStreak))
	last := "Last commit:       " + humanize.RelTime(sum.LastCommit, current, "ago", "from now")
	if sum.Ongoing {
		last += " (session ongoing)"
	}
	fmt.Fprintln(out, last)
}

type sessionJSON struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Commits  int       `json:"commits"`
	Duration string    `json:"duration"`
	Minutes  float64   `json:"minutes"`
}

type sessionsJSONOutput struct {
	Repo          string        `json:"repo"`
	GapMinutes    int           `json:"gap_minutes"`
	Sessions      []sessionJSON `json:"sessions"`
	Total         string        `json:"total"`
	TotalMinutes  float64       `json:"total_minutes"`
	CurrentStreak string        `json:"current_streak"`
	LastCommit    *time.Time    `json:"last_commit,omitempty"`
	Ongoing       bool          `json:"ongoing"`
}

func writeSessionsJSON(out io.Writer, repo string, sum estimator.Summary, loc *time.Location) error {
	doc := sessionsJSONOutput{
		Repo:          repo,
		GapMinutes:    int(sum.Gap / time.Minute),
		Sessions:      make([]sessionJSON, 0, len(sum.Sessions)),
		Total:         sum.Total.String(),
		TotalMinutes:  sum.Total.Minutes(),
		CurrentStreak: sum.CurrentStreak.String(),
		Ongoing:       sum.Ongoing,
	}
	for _, s := range sum.Sessions {
		doc.Sessions = append(doc.Sessions, sessionJSON{
			Start:    s.Start.In(loc),
			End:      s.End.In(loc),
			Commits:  s.Commits,
			Duration: s.Duration().String(),
			Minutes:  s.Duration().Minutes(),
		})
	}
	if !sum.LastCommit.IsZero() {
		last := sum.LastCommit.In(loc)
		doc.LastCommit = &last
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// commentary asks Gemini for one line about the estimate.
func commentary(ctx context.Context, repo string, sum estimator.Summary) (string, error) {
	summarizer, closeFn, err := newSummarizer(ctx, false)
	if err != nil {
		return "", err
	}
	defer closeFn()

	resp, err := summarizer.Summarize(ctx, gemini.Request{
		Task: gemini.TaskCommentary,
		Prompt: gemini.StreakPrompt(gemini.StreakFacts{
			Repo:          repo,
			Sessions:      len(sum.Sessions),
			Total:         sum.Total,
			CurrentStreak: sum.CurrentStreak,
			Ongoing:       sum.Ongoing,
		}),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// repoLabel is the directory name of repo.
func repoLabel(repo string) string {
	abs, err := filepath.Abs(repo)
	if err != nil {
		return repo
	}
	return filepath.Base(abs)
}

// shortDuration renders d rounded to minutes, e.g. "45m" or "2h05m".
func shortDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

func commitsLabel(n int) string {
	if n == 1 {
		return "1 commit"
	}
	return fmt.Sprintf("%d commits", n)
}

func init() {
	f := sessionsCmd.Flags()
	f.StringVar(&sessionsRepo, "repo", ".", "repository to read")
	f.IntVar(&sessionsGap, "gap", 0, "gap threshold in minutes (overrides config)")
	f.Var(&sessionsSince, "since", "only commits on or after this date (YYYY-MM-DD)")
	f.Var(&sessionsUntil, "until", "only commits on or before this date (YYYY-MM-DD)")
	f.StringVar(&sessionsAuthor, "author", "", "only commits whose author matches this pattern")
	f.Var(sessionsBackend, "backend", "git backend: exec or gogit (overrides config)")
	f.BoolVar(&sessionsJSON, "json", false, "print the estimate as JSON")
	f.BoolVar(&sessionsCommentary, "commentary", false, "ask Gemini for a line of commentary")
	f.BoolVar(&sessionsWatch, "watch", false, "re-print whenever new commits land")
	rootCmd.AddCommand(sessionsCmd)
}
