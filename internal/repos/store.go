// Package repos remembers the repositories worklog has been pointed at.
package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrUnknownRepo is returned by Remove when the path is not in the list.
	ErrUnknownRepo = errors.New("repository not in list")

	// ErrNotDirectory is returned by Add when the path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Store persists the ordered list of known repository paths.
type Store interface {
	List() ([]string, error)
	Add(path string) (string, error) // returns the cleaned absolute path
	Remove(path string) error
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to repos.json
}

type fileFormat struct {
	Repos []string `json:"repos"`
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/worklog/repos.json or ~/.local/share/worklog/repos.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "repos.json")}, nil
}

// dataDir returns the worklog-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "worklog"), nil
}

// List returns the known repositories in the order they were added.
// A missing file is an empty list.
func (d *diskStore) List() ([]string, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read repository list: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse repository list: %w", err)
	}
	return f.Repos, nil
}

// Add appends path if it is not already known.
func (d *diskStore) Add(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	repos, err := d.List()
	if err != nil {
		return "", err
	}
	for _, r := range repos {
		if r == abs {
			return abs, nil
		}
	}
	return abs, d.save(append(repos, abs))
}

// Remove drops path from the list.
func (d *diskStore) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	repos, err := d.List()
	if err != nil {
		return err
	}
	kept := repos[:0]
	found := false
	for _, r := range repos {
		if r == abs {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownRepo, abs)
	}
	return d.save(kept)
}

// save marshals repos to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) save(repos []string) (err error) {
	if repos == nil {
		repos = []string{}
	}
	data, err := json.MarshalIndent(fileFormat{Repos: repos}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist repository list: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "repos-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist repository list: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist repository list: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist repository list: %w", err)
	}
	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist repository list: %w", err)
	}
	return nil
}
