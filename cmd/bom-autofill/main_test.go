package main

import (
	"strings"
	"testing"
)

func TestPromptInputDir(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		shouldErr bool
	}{
		{"Plain path", "/data/boms\n", "/data/boms", false},
		{"Quoted path from drag and drop", "\"C:\\BOMs\\April\"\r\n", `C:\BOMs\April`, false},
		{"No trailing newline", "/data/boms", "/data/boms", false},
		{"Empty answer", "\n", "", true},
		{"Closed input", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &strings.Builder{}
			dir, err := promptInputDir(strings.NewReader(tt.input), out)
			if (err != nil) != tt.shouldErr {
				t.Fatalf("promptInputDir() error = %v, shouldErr %v", err, tt.shouldErr)
			}
			if dir != tt.expected {
				t.Errorf("dir = %q, expected %q", dir, tt.expected)
			}
			if !strings.Contains(out.String(), "folder containing the BOMs") {
				t.Errorf("prompt not shown: %q", out.String())
			}
		})
	}
}
