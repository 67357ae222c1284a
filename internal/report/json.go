package report

import (
	"encoding/json"
	"fmt"
	"os"

	"bom-autofill/internal/config"
	"bom-autofill/internal/model"
)

// JSONWriter writes the run summary as indented JSON
type JSONWriter struct{}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (e *JSONWriter) Format() string {
	return "json"
}

func (e *JSONWriter) Write(summary *model.RunSummary, cfg *config.Config) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	if err := os.WriteFile(cfg.GetOutputPath(".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
