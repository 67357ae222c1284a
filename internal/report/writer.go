package report

import (
	"strings"

	"bom-autofill/internal/config"
	"bom-autofill/internal/model"
)

// Writer is the unified interface for all run report formats
type Writer interface {
	// Format names the output format, used in log lines
	Format() string
	Write(summary *model.RunSummary, cfg *config.Config) error
}

// GetWriters returns a list of Writers based on requested formats.
// Unknown formats are ignored; duplicates and aliases are written once.
func GetWriters(formats []string) []Writer {
	writers := []Writer{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))

		var w Writer
		switch fmtStr {
		case "excel", "xlsx":
			w = NewExcelWriter()
		case "json":
			w = NewJSONWriter()
		case "word", "docx":
			w = NewWordWriter()
		default:
			continue
		}

		if seen[w.Format()] {
			continue
		}
		seen[w.Format()] = true
		writers = append(writers, w)
	}

	return writers
}

// ParseFormats splits a comma separated -format value
func ParseFormats(value string) []string {
	var formats []string
	for _, f := range strings.Split(value, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
