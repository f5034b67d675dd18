package gitlog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GoGitSource reads history in-process with go-git, without a git binary.
type GoGitSource struct {
	Dir string
}

// Commits implements Source.
func (s *GoGitSource) Commits(ctx context.Context, q Query) ([]Commit, error) {
	repo, err := git.PlainOpenWithOptions(s.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	var authorRe *regexp.Regexp
	if q.Author != "" {
		authorRe, err = regexp.Compile(q.Author)
		if err != nil {
			return nil, fmt.Errorf("invalid author pattern: %w", err)
		}
	}

	opts := &git.LogOptions{From: head.Hash()}
	if !q.Since.IsZero() {
		since := q.Since
		opts.Since = &since
	}
	if !q.Until.IsZero() {
		until := q.Until
		opts.Until = &until
	}

	iter, err := repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if authorRe != nil && !authorRe.MatchString(c.Author.Name+" <"+c.Author.Email+">") {
			return nil
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			When:    c.Author.When,
			Author:  c.Author.Name,
			Subject: subject(c.Message),
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}
	return commits, nil
}

// subject returns the first line of a commit message, like %s.
func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")
	return strings.TrimSpace(line)
}
