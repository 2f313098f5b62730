package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	// Reinitialize logger with test output
	logger = nil
	InitLogger(level)

	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:  "info log",
			level: "info",
			logFn: func() {
				Info("test info message")
			},
			contains: []string{"test info message"},
		},
		{
			name:  "debug log with debug level",
			level: "debug",
			logFn: func() {
				Debug("test debug message")
			},
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:  "debug log with info level",
			level: "info",
			logFn: func() {
				Debug("test debug message")
			},
			excludes: []string{"test debug message"},
		},
		{
			name:  "error log",
			level: "error",
			logFn: func() {
				Error("test error message")
			},
			contains: []string{"test error message", "level=ERROR"},
		},
		{
			name:  "warn log with fields",
			level: "warn",
			logFn: func() {
				Warn("test warning", Fields{"key1": "value1", "key2": 42})
			},
			contains: []string{"test warning", "level=WARN", "key1=value1", "key2=42"},
		},
		{
			name:  "critical log carries severity marker",
			level: "info",
			logFn: func() {
				Critical("unverifiable overwrite", Fields{"path": "/tmp/file"})
			},
			contains: []string{"unverifiable overwrite", "level=ERROR", "severity=critical"},
		},
		{
			name:  "criticalf formats and marks severity",
			level: "info",
			logFn: func() {
				Criticalf("unknown download size of url %s", "https://example.com/x")
			},
			contains: []string{"unknown download size", "severity=critical"},
		},
		{
			name:  "success log",
			level: "info",
			logFn: func() {
				Success("operation complete")
			},
			contains: []string{"operation complete", "status=success"},
		},
		{
			name:  "formatted warn",
			level: "info",
			logFn: func() {
				Warnf("size changed from %d to %d", 100, 200)
			},
			contains: []string{"size changed from 100 to 200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestGetLoggerInitializesDefault(t *testing.T) {
	logger = nil
	assert.NotNil(t, GetLogger())
}
