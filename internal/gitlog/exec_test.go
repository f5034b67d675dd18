package gitlog

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exitCodeError returns a real *exec.ExitError with the given exit code
// by running a shell command that exits with that code.
func exitCodeError(t *testing.T, code string) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit "+code).Run()
	require.Error(t, err)
	return err
}

func TestExecSourceNonGitRepo(t *testing.T) {
	exitErr := exitCodeError(t, "128")
	src := &ExecSource{
		Dir: "/some/dir",
		Runner: func(ctx context.Context, workDir string, args ...string) (string, error) {
			return "", exitErr
		},
	}

	commits, err := src.Commits(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrNotRepository)
	assert.Nil(t, commits)
}

func TestExecSourceEmptyRepository(t *testing.T) {
	exitErr := exitCodeError(t, "1")
	src := &ExecSource{
		Dir: "/repo",
		Runner: func(ctx context.Context, workDir string, args ...string) (string, error) {
			if strings.Join(args, " ") == "rev-parse --verify --quiet HEAD" {
				return "", exitErr
			}
			if args[0] == "log" {
				t.Errorf("log should not run on an empty repository")
			}
			return "true\n", nil
		},
	}

	commits, err := src.Commits(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestExecSourceSuccess(t *testing.T) {
	logOut := strings.Join([]string{
		"abc123|2024-03-01T09:50:00+01:00|Ada|fix: handle | in subjects",
		"not a commit line",
		"",
		"def456|2024-03-01T09:00:00+01:00|Ada|initial commit",
	}, "\n")

	var gotArgs []string
	src := &ExecSource{
		Dir: "/repo",
		Runner: func(ctx context.Context, workDir string, args ...string) (string, error) {
			assert.Equal(t, "/repo", workDir)
			if args[0] == "log" {
				gotArgs = args
				return logOut, nil
			}
			return "true\n", nil
		},
	}

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	commits, err := src.Commits(context.Background(), Query{Since: since, Author: "Ada"})
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, "abc123", commits[0].Hash)
	assert.Equal(t, "fix: handle | in subjects", commits[0].Subject)
	assert.Equal(t, "def456", commits[1].Hash)
	assert.True(t, commits[1].When.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))

	assert.Contains(t, gotArgs, "--pretty=format:"+Format)
	assert.Contains(t, gotArgs, "--since=2024-03-01T00:00:00Z")
	assert.Contains(t, gotArgs, "--author=Ada")
}

func TestExecSourcePropagatesOtherErrors(t *testing.T) {
	exitErr := exitCodeError(t, "2")
	src := &ExecSource{
		Dir: "/repo",
		Runner: func(ctx context.Context, workDir string, args ...string) (string, error) {
			if args[0] == "log" {
				return "", &GitError{Args: args, Stderr: "fatal: bad revision", Err: exitErr}
			}
			return "true\n", nil
		},
	}

	_, err := src.Commits(context.Background(), Query{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRepository)
	assert.Contains(t, err.Error(), "fatal: bad revision")
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("", "/repo", nil)
	require.NoError(t, err)
	assert.IsType(t, &ExecSource{}, src)

	src, err = NewSource("GoGit", "/repo", nil)
	require.NoError(t, err)
	assert.IsType(t, &GoGitSource{}, src)

	_, err = NewSource("svn", "/repo", nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
