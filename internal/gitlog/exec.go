package gitlog

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// GitRunner executes a git command and returns its stdout.
// This abstraction allows mocking in tests.
type GitRunner func(ctx context.Context, workDir string, args ...string) (string, error)

// ExecSource reads history by running the git executable.
type ExecSource struct {
	Dir    string
	Runner GitRunner   // if nil, uses the real git subprocess
	Logger *zap.Logger // if nil, logging is discarded
}

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		gitErr := &GitError{Args: args, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			gitErr.Stderr = string(exitErr.Stderr)
		}
		return string(out), gitErr
	}
	return string(out), nil
}

// Commits implements Source. A directory outside any work tree (exit code
// 128) yields ErrNotRepository; a repository without commits yields none.
func (s *ExecSource) Commits(ctx context.Context, q Query) ([]Commit, error) {
	runner := s.Runner
	if runner == nil {
		runner = defaultGitRunner
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := runner(ctx, s.Dir, "rev-parse", "--is-inside-work-tree"); err != nil {
		if exitCode(err) == 128 {
			return nil, ErrNotRepository
		}
		return nil, err
	}

	// rev-parse --verify exits 1 when HEAD does not resolve yet.
	if _, err := runner(ctx, s.Dir, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		if exitCode(err) == 1 {
			log.Debug("repository has no commits", zap.String("dir", s.Dir))
			return nil, nil
		}
		return nil, err
	}

	args := []string{"log", "--pretty=format:" + Format}
	if !q.Since.IsZero() {
		args = append(args, "--since="+q.Since.Format(time.RFC3339))
	}
	if !q.Until.IsZero() {
		args = append(args, "--until="+q.Until.Format(time.RFC3339))
	}
	if q.Author != "" {
		args = append(args, "--author="+q.Author)
	}

	out, err := runner(ctx, s.Dir, args...)
	if err != nil {
		return nil, err
	}

	commits, parseErrs := ParseLog(out)
	for _, perr := range parseErrs {
		log.Debug("skipping log line", zap.Error(perr))
	}
	log.Debug("read commits",
		zap.String("dir", s.Dir),
		zap.Int("commits", len(commits)),
		zap.Int("skipped", len(parseErrs)))
	return commits, nil
}

// exitCode returns the process exit code carried by err, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
