package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/worklog/internal/gemini"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreGetMiss(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStorePutGetReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := Key("m", "daily_report", "prompt")

	require.NoError(t, s.Put(ctx, Entry{Key: key, Model: "m", Text: "first"}))
	require.NoError(t, s.Put(ctx, Entry{Key: key, Model: "m", Text: "second"}))

	e, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", e.Text)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestStoreInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, Entry{Key: "k", Model: "m", Text: "t"}))
	e, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "t", e.Text)
}

func TestStorePurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, s.Put(ctx, Entry{Key: "old", Model: "m", Text: "t", CreatedAt: old}))
	require.NoError(t, s.Put(ctx, Entry{Key: "new", Model: "m", Text: "t"}))

	n, err := s.Purge(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = s.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestKeyDependsOnEveryPart(t *testing.T) {
	base := Key("m", "t", "p")
	assert.NotEqual(t, base, Key("m2", "t", "p"))
	assert.NotEqual(t, base, Key("m", "t2", "p"))
	assert.NotEqual(t, base, Key("m", "t", "p2"))
	assert.Len(t, base, 64)
}

type countingSummarizer struct {
	calls int
	text  string
	err   error
}

func (c *countingSummarizer) Summarize(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &gemini.Response{Text: c.text, Model: "gemini-test"}, nil
}

func TestSummarizerCachesResponses(t *testing.T) {
	next := &countingSummarizer{text: "- did things"}
	cs := &Summarizer{Store: openTestStore(t), Next: next, Model: "gemini-test"}
	req := gemini.Request{Task: gemini.TaskDailyReport, Prompt: "msgs"}

	first, err := cs.Summarize(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := cs.Summarize(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "- did things", second.Text)
	assert.Equal(t, 1, next.calls)

	_, err = cs.Summarize(context.Background(), gemini.Request{Task: gemini.TaskDailyReport, Prompt: "other"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestSummarizerDoesNotCacheErrors(t *testing.T) {
	next := &countingSummarizer{err: errors.New("quota")}
	cs := &Summarizer{Store: openTestStore(t), Next: next, Model: "gemini-test"}
	req := gemini.Request{Task: gemini.TaskDailyReport, Prompt: "msgs"}

	_, err := cs.Summarize(context.Background(), req)
	require.Error(t, err)
	_, err = cs.Summarize(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}
