package bootlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWritesToMainConsole(t *testing.T) {
	var main bytes.Buffer
	c := New(&main)
	c.Info("loader starting")

	if !strings.Contains(main.String(), "loader starting") {
		t.Errorf("main console missing expected message, got %q", main.String())
	}
}

func TestWithDebugWriterReceivesEveryEntry(t *testing.T) {
	var main, debug bytes.Buffer
	c := New(&main, WithDebugWriter(&debug), WithLevel(logrus.InfoLevel))

	c.Debug("a debug-only trace the main console should not show")
	c.Info("a normal message")

	if strings.Contains(main.String(), "debug-only") {
		t.Errorf("main console leaked a debug entry below its level: %q", main.String())
	}
	if !strings.Contains(debug.String(), "debug-only") {
		t.Errorf("debug console missing debug entry, got %q", debug.String())
	}
	if !strings.Contains(debug.String(), "normal message") {
		t.Errorf("debug console missing info entry, got %q", debug.String())
	}
}

func TestWithLevelFiltersMainConsole(t *testing.T) {
	var main bytes.Buffer
	c := New(&main, WithLevel(logrus.WarnLevel))
	c.Info("should be filtered out")
	c.Warn("should appear")

	if strings.Contains(main.String(), "filtered out") {
		t.Errorf("expected info message to be filtered at warn level, got %q", main.String())
	}
	if !strings.Contains(main.String(), "should appear") {
		t.Errorf("expected warn message to appear, got %q", main.String())
	}
}

func TestDefaultsToStderrWhenMainIsNil(t *testing.T) {
	c := New(nil)
	if c.Logger.Out == nil {
		t.Fatalf("expected a non-nil default output writer")
	}
}
