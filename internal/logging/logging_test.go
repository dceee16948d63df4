package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestDailyFile(t *testing.T) {
	day := time.Date(2026, 3, 9, 17, 4, 0, 0, time.UTC)
	if got, want := DailyFile("/var/log/x", day), filepath.Join("/var/log/x", "log_2026-03-09.log"); got != want {
		t.Errorf("DailyFile() = %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	testCases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range testCases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToDailyFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(DailyFile(dir, time.Now()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in daily file")
	}
}
