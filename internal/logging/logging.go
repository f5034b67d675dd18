// Package logging builds the zap logger shared by worklog components.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the CLI and a func that flushes it and closes
// the log file. Without verbose or a log file it discards everything.
// verbose adds human-readable debug output on stderr; logFile adds JSON
// lines appended to that path.
func New(verbose bool, logFile string) (*zap.Logger, func() error, error) {
	var cores []zapcore.Core
	closeFile := func() error { return nil }

	if verbose {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			zap.DebugLevel,
		))
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFile = f.Close
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(f),
			zap.InfoLevel,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), closeFile, nil
	}
	log := zap.New(zapcore.NewTee(cores...))
	closeFn := func() error {
		// Syncing stderr fails on some terminals; only the file matters.
		_ = log.Sync()
		return closeFile()
	}
	return log, closeFn, nil
}
