package gitlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotRepository is returned when the directory is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrUnknownBackend is returned by NewSource for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown git backend")
)

// Query narrows the commits returned by a Source. Zero values are unbounded.
type Query struct {
	Since  time.Time
	Until  time.Time
	Author string // regular expression, as with git log --author
}

// Source lists commits of one repository, newest first.
type Source interface {
	Commits(ctx context.Context, q Query) ([]Commit, error)
}

// Backend names accepted by NewSource.
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// NewSource returns the Source for backend rooted at dir. log may be nil.
func NewSource(backend, dir string, log *zap.Logger) (Source, error) {
	switch strings.ToLower(backend) {
	case "", BackendExec:
		return &ExecSource{Dir: dir, Logger: log}, nil
	case BackendGoGit:
		return &GoGitSource{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnknownBackend, backend, BackendExec, BackendGoGit)
	}
}

// GitError describes a failed git invocation.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := "git " + strings.Join(e.Args, " ") + " failed"
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }
