// Package gemini asks the Gemini API for work summaries and commentary.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Task identifies the kind of text being generated.
type Task string

const (
	TaskDailyReport Task = "daily_report"
	TaskCommentary  Task = "commentary"
)

// Request holds the parameters for one generation call.
type Request struct {
	Task   Task
	Prompt string
}

// Response holds the generated text.
type Response struct {
	Text    string
	Model   string
	Latency time.Duration
	Cached  bool
}

// Summarizer turns a prompt into text.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*Response, error)
}

// GenerateFunc sends prompt to model and returns the concatenated candidate
// text. This abstraction allows mocking in tests.
type GenerateFunc func(ctx context.Context, model, prompt string) (string, error)

// Options configures a Client.
type Options struct {
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float32
	Observer    Observer
}

// DefaultOptions returns the generation settings used for daily reports.
func DefaultOptions() Options {
	return Options{
		Model:       "gemini-2.0-flash",
		Timeout:     30 * time.Second,
		MaxRetries:  1,
		Temperature: 0.3,
	}
}

// Client implements Summarizer against the Gemini API.
type Client struct {
	opts     Options
	generate GenerateFunc
	observer Observer
}

// NewClient creates a Client backed by the genai SDK.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	temperature := opts.Temperature
	gen := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := gc.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr(temperature),
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return NewClientWithGenerator(gen, opts), nil
}

// NewClientWithGenerator creates a Client that calls gen instead of the API.
// Zero option values fall back to DefaultOptions.
func NewClientWithGenerator(gen GenerateFunc, opts Options) *Client {
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	observer := opts.Observer
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{opts: opts, generate: gen, observer: observer}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.opts.Model }

// Summarize implements Summarizer. Failed attempts are retried up to
// MaxRetries times unless the context is done.
func (c *Client) Summarize(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var lastErr error
	tried := 0
	for i := 0; i < 1+c.opts.MaxRetries; i++ {
		tried++
		text, err := c.generate(ctx, c.opts.Model, req.Prompt)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			latency := time.Since(start)
			c.observer.OnCallComplete(CallEvent{
				Task: req.Task, Model: c.opts.Model, Latency: latency, Attempts: tried, Success: true,
			})
			return &Response{Text: strings.TrimSpace(text), Model: c.opts.Model, Latency: latency}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Task: req.Task, Model: c.opts.Model, Latency: time.Since(start), Attempts: tried, Err: lastErr,
	})

	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	if errors.Is(lastErr, ErrEmptyResponse) {
		return nil, ErrEmptyResponse
	}
	return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}
