package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"bom-autofill/internal/config"
	"bom-autofill/internal/model"

	"github.com/nguyenthenguyen/docx"
)

// WordWriter renders the run report into a .docx document
type WordWriter struct{}

func NewWordWriter() *WordWriter {
	return &WordWriter{}
}

func (e *WordWriter) Format() string {
	return "word"
}

func (e *WordWriter) Write(summary *model.RunSummary, cfg *config.Config) error {
	// 1. Materialize the template, the docx package only opens files
	templateBytes, err := buildTemplate()
	if err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "bom-autofill-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// 2. Replace placeholders
	doc.Replace("{{Date}}", summary.StartedAt.Format("2006-01-02 15:04"), -1)
	doc.Replace("{{Portal}}", summary.Portal, -1)
	doc.Replace("{{Content}}", buildContent(summary), -1)

	if err := doc.WriteToFile(cfg.GetOutputPath(".docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}
	return nil
}

// buildContent renders the summary and the per-file table as plain text
func buildContent(summary *model.RunSummary) string {
	var sb strings.Builder

	sb.WriteString("Summary Overview:\n")
	sb.WriteString(fmt.Sprintf("  • Input directory: %s\n", summary.InputDir))
	sb.WriteString(fmt.Sprintf("  • Driver: %s", summary.Driver))
	if summary.DryRun {
		sb.WriteString(" (dry run)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  • Files: %d (imported %d, failed %d, skipped %d)\n",
		len(summary.Results),
		summary.Count(model.StatusImported),
		summary.Count(model.StatusFailed),
		summary.Count(model.StatusSkipped)))
	sb.WriteString(fmt.Sprintf("  • Rows added: %d\n", summary.TotalRows()))
	sb.WriteString(fmt.Sprintf("  • Elapsed: %s\n", summary.Elapsed().Round(time.Second)))
	if summary.Aborted {
		sb.WriteString("  • The run stopped at the first failure\n")
	}
	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-4s %-30s %-30s %6s %-9s\n", "No", "File", "BOM Name", "Rows", "Status"))
	sb.WriteString(strings.Repeat("-", 83) + "\n")
	for i, r := range summary.Results {
		sb.WriteString(fmt.Sprintf("%-4d %-30s %-30s %6d %-9s\n", i+1, r.File, r.Title, r.RowsAdded, r.Status))
		if r.Error != "" {
			sb.WriteString(fmt.Sprintf("     Error: %s\n", r.Error))
		}
	}

	return sb.String()
}
