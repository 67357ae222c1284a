package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func initTestLogger(t *testing.T, verbose bool) (*bytes.Buffer, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "bom_autofill.log")
	consoleBuffer := &bytes.Buffer{}

	if err := Init(consoleBuffer, logPath, verbose); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(Close)
	return consoleBuffer, logPath
}

func TestLoggerInit(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	Info("Logged in to %s", "https://portal.example")
	if !strings.Contains(consoleBuffer.String(), "Logged in to https://portal.example") {
		t.Errorf("Console output missing info message: %s", consoleBuffer.String())
	}

	logContent, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logStr := string(logContent)
	if !strings.Contains(logStr, "[INFO]") {
		t.Error("Log file missing INFO level")
	}
	if !strings.Contains(logStr, "Logged in to https://portal.example") {
		t.Error("Log file missing info message")
	}
}

func TestLoggerLevels(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	Debug("click bom_tab")
	Info("Importing MX-200.xlsx")
	Warn("Loading took too much time!")
	Error("Import failed")

	logContent, _ := os.ReadFile(logPath)
	logStr := string(logContent)

	for _, level := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(logStr, level) {
			t.Errorf("Log file missing %s level", level)
		}
	}

	consoleStr := consoleBuffer.String()
	if strings.Contains(consoleStr, "click bom_tab") {
		t.Error("Console should not show DEBUG when verbose=false")
	}
	if !strings.Contains(consoleStr, "Loading took too much time!") {
		t.Error("Console missing warning")
	}
}

func TestLoggerVerbose(t *testing.T) {
	consoleBuffer, _ := initTestLogger(t, true)

	Debug("click bom_tab")

	consoleStr := consoleBuffer.String()
	if !strings.Contains(consoleStr, "[DEBUG]") {
		t.Error("Console should show DEBUG when verbose=true")
	}
	if !strings.Contains(consoleStr, "click bom_tab") {
		t.Error("Console missing debug message content")
	}
	if !IsVerbose() {
		t.Error("IsVerbose() should return true when initialized with verbose=true")
	}
}

func TestLogRowError(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	LogRowError("MX-200.xlsx", 4, "quantity", errors.New("quantity is not a number"))

	logContent, _ := os.ReadFile(logPath)
	logStr := string(logContent)

	if !strings.Contains(logStr, "[ROW_ERROR]") {
		t.Error("Log file missing ROW_ERROR marker")
	}
	if !strings.Contains(logStr, "MX-200.xlsx") || !strings.Contains(logStr, "Row: 5") {
		t.Errorf("Log file missing file or 1-based row: %s", logStr)
	}
	if strings.Contains(consoleBuffer.String(), "[ROW_ERROR]") {
		t.Error("Console should not show row error details")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if result := tt.level.String(); result != tt.expected {
			t.Errorf("Level.String() = %s, expected %s", result, tt.expected)
		}
	}
}

func TestGetLogFilePath(t *testing.T) {
	_, logPath := initTestLogger(t, false)

	if retrieved := GetLogFilePath(); retrieved != logPath {
		t.Errorf("GetLogFilePath() = %s, expected %s", retrieved, logPath)
	}
}
