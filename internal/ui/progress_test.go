package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPipelinePhases(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPipelineWithOutput(ImportPhases, out)

	for _, phase := range ImportPhases {
		bar := p.NextPhase(2)
		if bar == nil {
			t.Fatalf("NextPhase() returned nil for %s", phase)
		}
		if bar.Phase() != string(phase) {
			t.Errorf("Phase() = %s, expected %s", bar.Phase(), phase)
		}
		bar.Describe("MX-200.xlsx")
		bar.Increment()
		bar.Increment()
	}

	if bar := p.NextPhase(1); bar != nil {
		t.Error("NextPhase() past the last phase should return nil")
	}
	p.Finish()

	if !strings.Contains(out.String(), "[Importing]") {
		t.Errorf("expected phase label in output, got %q", out.String())
	}
}

func TestPipelineDisabled(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPipelineWithOutput(ImportPhases, out)
	p.Disable()

	bar := p.NextPhase(3)
	bar.SetTotal(5)
	bar.Describe("MX-100.xlsx")
	bar.Increment()
	p.PrintSummary("done")
	p.Finish()

	if out.Len() != 0 {
		t.Errorf("disabled pipeline wrote %q", out.String())
	}
}
