package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/gemini"
)

// Summarizer serves summaries from the Store and delegates misses to Next.
type Summarizer struct {
	Store  *Store
	Next   gemini.Summarizer
	Model  string
	Logger *zap.Logger
}

// Summarize implements gemini.Summarizer. Cache read or write failures are
// logged and never fail the call.
func (c *Summarizer) Summarize(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	key := Key(c.Model, string(req.Task), req.Prompt)

	entry, err := c.Store.Get(ctx, key)
	switch {
	case err == nil:
		log.Debug("summary cache hit", zap.String("task", string(req.Task)))
		return &gemini.Response{Text: entry.Text, Model: entry.Model, Cached: true}, nil
	case !errors.Is(err, ErrMiss):
		log.Warn("summary cache read failed", zap.Error(err))
	}

	resp, err := c.Next.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Put(ctx, Entry{Key: key, Model: resp.Model, Text: resp.Text}); err != nil {
		log.Warn("summary cache write failed", zap.Error(err))
	}
	return resp, nil
}
