package report

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/estimator"
	"github.com/fakeyudi/worklog/internal/gemini"
	"github.com/fakeyudi/worklog/internal/gitlog"
)

// ErrNoSummarizer is returned by Build when no Summarizer is configured.
var ErrNoSummarizer = errors.New("report builder has no summarizer")

// Builder turns the commits of a date range into a WorkReport.
type Builder struct {
	Summarizer gemini.Summarizer
	Gap        time.Duration
	Location   *time.Location
	Author     string
	Logger     *zap.Logger
	Now        func() time.Time
}

// Build summarizes commits day by day. A day whose summary fails gets the
// fallback text instead of aborting the report; only context cancellation
// stops the build early.
func (b *Builder) Build(ctx context.Context, repoPath string, r gitlog.DateRange, commits []gitlog.Commit) (*WorkReport, error) {
	if b.Summarizer == nil {
		return nil, ErrNoSummarizer
	}
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	ordered := append([]gitlog.Commit(nil), commits...)
	gitlog.SortOldestFirst(ordered)

	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	rep := &WorkReport{
		ID:          uuid.NewString(),
		Repo:        filepath.Base(abs),
		RepoPath:    abs,
		Range:       rangeLabel(r, ordered, loc),
		GeneratedAt: now(),
		Author:      b.Author,
	}

	for _, day := range gitlog.GroupByDate(ordered, loc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		messages := day.Messages()
		resp, err := b.Summarizer.Summarize(ctx, gemini.Request{
			Task:   gemini.TaskDailyReport,
			Prompt: gemini.DailyReportPrompt(messages),
		})
		var summary string
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("day summary failed", zap.String("date", day.Date), zap.Error(err))
			summary = gemini.Fallback(err)
		} else {
			summary = resp.Text
			log.Debug("day summarized", zap.String("date", day.Date), zap.Bool("cached", resp.Cached))
		}
		rep.Days = append(rep.Days, DaySummary{
			Date:     day.Date,
			Summary:  summary,
			Messages: messages,
			Points:   gemini.ExtractTaskPoints(summary),
		})
	}

	if b.Gap > 0 && len(ordered) > 0 {
		rep.Sessions = sessionStats(gitlog.Timestamps(ordered), b.Gap)
	}
	return rep, nil
}

// rangeLabel names the report. An open range is labelled by the dates of
// its first and last commits.
func rangeLabel(r gitlog.DateRange, ordered []gitlog.Commit, loc *time.Location) string {
	if !r.IsAll() || len(ordered) == 0 {
		return r.Label()
	}
	first := ordered[0].When.In(loc)
	last := ordered[len(ordered)-1].When.In(loc)
	return gitlog.Between(first, last).Label()
}

func sessionStats(timestamps []time.Time, gap time.Duration) *SessionStats {
	sessions := estimator.Estimate(timestamps, gap)
	stats := &SessionStats{
		GapMinutes:    int(gap / time.Minute),
		Count:         len(sessions),
		Total:         estimator.TotalActive(sessions).String(),
		CurrentStreak: estimator.CurrentStreak(sessions).String(),
	}
	if longest, ok := estimator.Longest(sessions); ok {
		stats.Longest = longest.Duration().String()
	}
	return stats
}
