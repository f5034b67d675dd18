package gemini

import (
	"time"

	"go.uber.org/zap"
)

// CallEvent records metadata about a single Summarize call.
type CallEvent struct {
	Task     Task
	Model    string
	Latency  time.Duration
	Attempts int
	Success  bool
	Err      error
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an Observer that logs to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("task", string(event.Task)),
		zap.String("model", event.Model),
		zap.Duration("latency", event.Latency),
		zap.Int("attempts", event.Attempts),
	}
	if event.Success {
		o.log.Info("gemini call", fields...)
		return
	}
	o.log.Warn("gemini call failed", append(fields, zap.Error(event.Err))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
