package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/cache"
	"github.com/fakeyudi/worklog/internal/gemini"
	"github.com/fakeyudi/worklog/internal/gitlog"
)

// now is the clock used by commands. Replaced in tests.
var now = time.Now

// newSummarizer builds the summarizer used by report and commentary. The
// returned close func releases the cache. Replaced in tests.
var newSummarizer = defaultSummarizer

func defaultSummarizer(ctx context.Context, noCache bool) (gemini.Summarizer, func(), error) {
	key := secrets.GeminiAPIKey
	if key == "" && interactive() {
		// Ask once when nothing is configured.
		if err := huh.NewInput().
			Title("Gemini API key (or set GEMINI_API_KEY)").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Run(); err != nil {
			return nil, nil, err
		}
	}

	opts := gemini.DefaultOptions()
	opts.Model = cfg.Model
	opts.Observer = gemini.NewLogObserver(logger)
	client, err := gemini.NewClient(ctx, key, opts)
	if err != nil {
		return nil, nil, err
	}

	if noCache || !cfg.CacheOn() {
		return client, func() {}, nil
	}
	path, err := cache.DefaultPath()
	if err != nil {
		logger.Warn("summary cache unavailable", zap.Error(err))
		return client, func() {}, nil
	}
	store, err := cache.Open(path)
	if err != nil {
		logger.Warn("summary cache unavailable", zap.Error(err))
		return client, func() {}, nil
	}
	cached := &cache.Summarizer{Store: store, Next: client, Model: client.Model(), Logger: logger}
	return cached, func() { store.Close() }, nil
}

// openSource returns the commit source for repo, using backend when given
// and the configured backend otherwise.
func openSource(backend, repo string) (gitlog.Source, error) {
	if backend == "" {
		backend = cfg.Backend
	}
	return gitlog.NewSource(backend, repo, logger)
}

// readCommits lists the commits of repo, turning "not a repository" into a
// message naming the directory.
func readCommits(ctx context.Context, src gitlog.Source, repo string, q gitlog.Query) ([]gitlog.Commit, error) {
	commits, err := src.Commits(ctx, q)
	if err != nil {
		if errors.Is(err, gitlog.ErrNotRepository) {
			return nil, fmt.Errorf("%s: %w", repo, err)
		}
		return nil, fmt.Errorf("reading commits: %w", err)
	}
	return commits, nil
}
