package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fakeyudi/worklog/internal/gemini"
)

// executeCommand runs root with args and returns everything written to
// stdout and stderr.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetFlags puts every flag of c and its subcommands back to its default
// so package-level flag variables do not leak between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupEnv isolates HOME and XDG_DATA_HOME, writes a global config that
// pins the timezone and the in-process git backend, and fixes the clock.
func setupEnv(t *testing.T, current time.Time) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("GEMINI_API_KEY", "")

	cfgDir := filepath.Join(home, ".config", "worklog")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	conf := `{"timezone": "UTC", "backend": "gogit", "gap_threshold_minutes": 30}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	prevNow, prevSummarizer := now, newSummarizer
	now = func() time.Time { return current }
	t.Cleanup(func() {
		now, newSummarizer = prevNow, prevSummarizer
		resetFlags(rootCmd)
	})
	resetFlags(rootCmd)
}

// initRepo creates a repository with one commit per timestamp, each with
// the matching subject.
func initRepo(t *testing.T, subjects []string, when []time.Time) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for i, ts := range when {
		if err := os.WriteFile(filepath.Join(dir, "work.txt"), []byte(subjects[i]), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("work.txt"); err != nil {
			t.Fatalf("Add: %v", err)
		}
		sig := &object.Signature{Name: "Ada", Email: "ada@example.com", When: ts}
		if _, err := wt.Commit(subjects[i], &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
	return dir
}

// stubSummarizer returns text for every request, or err.
type stubSummarizer struct {
	text  string
	err   error
	tasks []gemini.Task
}

func (s *stubSummarizer) Summarize(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	s.tasks = append(s.tasks, req.Task)
	if s.err != nil {
		return nil, s.err
	}
	return &gemini.Response{Text: s.text, Model: "stub"}, nil
}

func useSummarizer(s gemini.Summarizer) {
	newSummarizer = func(ctx context.Context, noCache bool) (gemini.Summarizer, func(), error) {
		return s, func() {}, nil
	}
}
