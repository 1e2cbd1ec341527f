package logger

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger == nil {
			t.Error("expected non-nil logger")
		}
		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		if logger == nil {
			t.Error("expected non-nil logger even with nil writer")
		}
		// Must not panic.
		logger.LogInfo("discarded")
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "verbose")
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
	})
}

// TestLogFormat verifies the "[HH:MM:SS] [LEVEL] message" output shape.
func TestLogFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogInfo("stream monitor started")

	line := buf.String()
	matched, err := regexp.MatchString(`^\[\d{2}:\d{2}:\d{2}\] \[INFO\] stream monitor started\n$`, line)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Errorf("unexpected log format: %q", line)
	}
}

// TestLogLevelFiltering verifies messages below the configured level are
// suppressed and messages at or above it pass.
func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		configured string
		emitted    []string
		suppressed []string
	}{
		{
			configured: "trace",
			emitted:    []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"},
		},
		{
			configured: "info",
			emitted:    []string{"INFO", "WARN", "ERROR"},
			suppressed: []string{"TRACE", "DEBUG"},
		},
		{
			configured: "error",
			emitted:    []string{"ERROR"},
			suppressed: []string{"TRACE", "DEBUG", "INFO", "WARN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.configured, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.configured)

			logger.LogTrace("m")
			logger.LogDebug("m")
			logger.LogInfo("m")
			logger.LogWarn("m")
			logger.LogError("m")

			out := buf.String()
			for _, level := range tt.emitted {
				if !strings.Contains(out, "["+level+"]") {
					t.Errorf("level %s missing from output", level)
				}
			}
			for _, level := range tt.suppressed {
				if strings.Contains(out, "["+level+"]") {
					t.Errorf("level %s should have been filtered", level)
				}
			}
		})
	}
}

// TestNormalizeLogLevel verifies trimming, case folding, and the default.
func TestNormalizeLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"DEBUG", "debug"},
		{"  Warn  ", "warn"},
		{"", "info"},
		{"loud", "info"},
	}
	for _, tt := range tests {
		if got := normalizeLogLevel(tt.in); got != tt.want {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestNoColorForNonTerminalWriter verifies buffer output carries no ANSI
// escape sequences.
func TestNoColorForNonTerminalWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")
	logger.LogError("failure detail")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected plain output for non-terminal writer, got %q", buf.String())
	}
}

// TestConcurrentLogging verifies writes from many goroutines do not
// interleave within a line.
func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	mu := &sync.Mutex{}
	logger := NewConsoleLogger(lockedWriter{mu: mu, buf: buf}, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.LogInfo(fmt.Sprintf("message %d", n))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "[INFO] message ") {
			t.Errorf("garbled line: %q", line)
		}
	}
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// TestNoOpLogger verifies the discard logger accepts every level.
func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.LogTrace("m")
	logger.LogDebug("m")
	logger.LogInfo("m")
	logger.LogWarn("m")
	logger.LogError("m")
}
