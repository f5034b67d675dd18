package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWithoutOutputsIsNop(t *testing.T) {
	log, closeFn, err := New(false, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected a no-op logger")
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "worklog.log")

	log, closeFn, err := New(false, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("estimated sessions")
	log.Debug("not written at info level")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"estimated sessions"`) {
		t.Errorf("log file missing entry, got: %s", data)
	}
	if strings.Contains(string(data), "not written") {
		t.Errorf("debug entry leaked into log file: %s", data)
	}
}

func TestCloseReleasesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.log")

	_, closeFn, err := New(true, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	// The file is already closed, so a second close reports it.
	if err := closeFn(); err == nil {
		t.Error("expected an error closing the file twice")
	}
}
