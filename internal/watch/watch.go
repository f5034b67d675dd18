// Package watch notifies when a repository gains new commits.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for a burst of ref updates
// to settle before firing.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoGitDir is returned by New when repoDir is not inside a repository.
var ErrNoGitDir = errors.New("no .git directory")

// Watcher watches a repository's git directory for ref and reflog updates.
type Watcher struct {
	GitDir string
	// CommonDir holds the shared refs of a linked worktree. Empty otherwise.
	CommonDir string
	Debounce  time.Duration
	Logger    *zap.Logger
}

// New returns a Watcher for the repository containing repoDir. A .git file
// (linked worktree, submodule) is followed to the real git directory.
func New(repoDir string, log *zap.Logger) (*Watcher, error) {
	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrNoGitDir, repoDir, err)
	}
	st, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoGitDir, repoDir)
	}
	w := &Watcher{
		GitDir:   st.Filesystem().Root(),
		Debounce: DefaultDebounce,
		Logger:   log,
	}
	w.CommonDir = commonDir(w.GitDir)
	return w, nil
}

// commonDir reads the commondir file git writes for linked worktrees.
func commonDir(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitDir, dir)
	}
	return filepath.Clean(dir)
}

// roots returns the git directories whose refs can change on commit.
func (w *Watcher) roots() []string {
	if w.CommonDir == "" || w.CommonDir == w.GitDir {
		return []string{w.GitDir}
	}
	return []string{w.GitDir, w.CommonDir}
}

// dirs returns the directories to watch. Only the git directories
// themselves are required.
func (w *Watcher) dirs() []string {
	var out []string
	for _, root := range w.roots() {
		out = append(out, root)
		for _, sub := range []string{"logs", filepath.Join("refs", "heads")} {
			p := filepath.Join(root, sub)
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				out = append(out, p)
			}
		}
	}
	return out
}

// relevant reports whether an event on name can mean a new commit.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	for _, root := range w.roots() {
		rel, err := filepath.Rel(root, event.Name)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		switch {
		case rel == "HEAD", rel == "packed-refs":
			return true
		case strings.HasPrefix(rel, "logs/"), strings.HasPrefix(rel, "refs/"):
			return true
		}
	}
	return false
}

// Run calls onChange after each settled burst of relevant events until ctx
// is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		log.Debug("watching", zap.String("dir", dir))
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("git change", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
