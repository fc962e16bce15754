package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWritesFile(t *testing.T) {
	defer Set(nil)
	file := filepath.Join(t.TempDir(), "helperkit.log")
	if err := Init(Options{File: file, Level: "debug", JSON: true, MaxSizeMB: 1}); err != nil {
		t.Fatal(err)
	}
	Info("hello", zap.String("k", "v"))
	Sync()
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}
}

func TestInitBadLevel(t *testing.T) {
	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetObserver(t *testing.T) {
	defer Set(nil)
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	Debug("retry", zap.Int("attempt", 1))
	if logs.Len() != 1 {
		t.Fatalf("got %d entries, want 1", logs.Len())
	}
	if logs.All()[0].Message != "retry" {
		t.Errorf("unexpected message %q", logs.All()[0].Message)
	}
}
