package report

import (
	"fmt"
	"time"

	"bom-autofill/internal/config"
	"bom-autofill/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	importsSheet = "Imports"
)

// ExcelWriter handles the Excel run report
type ExcelWriter struct{}

// NewExcelWriter creates a new ExcelWriter
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

func (e *ExcelWriter) Format() string {
	return "excel"
}

// Write generates the Excel report
func (e *ExcelWriter) Write(summary *model.RunSummary, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Overview of the run
	if err := e.writeSummary(f, styler, summary); err != nil {
		return err
	}

	// 2. One line per BOM file
	if err := e.writeImports(f, styler, summary); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(cfg.GetOutputPath(".xlsx")); err != nil {
		return fmt.Errorf("failed to save Excel report: %w", err)
	}
	return nil
}

func (e *ExcelWriter) writeSummary(f *excelize.File, s *Styler, summary *model.RunSummary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	e.writeRow(f, summarySheet, 1, []string{"Metric", "Value"}, s.HeaderStyle)

	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Portal", summary.Portal},
		{"Driver", summary.Driver},
		{"Input Directory", summary.InputDir},
		{"Dry Run", summary.DryRun},
		{"Started", summary.StartedAt.Format("2006-01-02 15:04:05")},
		{"Elapsed", summary.Elapsed().Round(time.Second).String()},
		{"Files", len(summary.Results)},
		{"Imported", summary.Count(model.StatusImported)},
		{"Failed", summary.Count(model.StatusFailed)},
		{"Skipped", summary.Count(model.StatusSkipped)},
		{"Rows Added", summary.TotalRows()},
		{"Aborted", summary.Aborted},
	}

	row := 2
	for _, m := range metrics {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	f.SetColWidth(summarySheet, "A", "A", 20)
	f.SetColWidth(summarySheet, "B", "B", 50)
	return nil
}

func (e *ExcelWriter) writeImports(f *excelize.File, s *Styler, summary *model.RunSummary) error {
	if _, err := f.NewSheet(importsSheet); err != nil {
		return err
	}

	headers := []string{"No", "File", "BOM Name", "Rows", "Status", "Error", "Duration"}
	e.writeRow(f, importsSheet, 1, headers, s.HeaderStyle)

	f.SetPanes(importsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, r := range summary.Results {
		row := i + 2
		values := []interface{}{i + 1, r.File, r.Title, r.RowsAdded, string(r.Status), r.Error, r.Duration.Round(time.Millisecond).String()}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(importsSheet, cell, val)
			f.SetCellStyle(importsSheet, cell, cell, s.DefaultStyle)
		}
		status, _ := excelize.CoordinatesToCellName(5, row)
		f.SetCellStyle(importsSheet, status, status, s.StatusStyle(r.Status))
	}

	f.SetColWidth(importsSheet, "A", "A", 6)
	f.SetColWidth(importsSheet, "B", "C", 30)
	f.SetColWidth(importsSheet, "D", "E", 12)
	f.SetColWidth(importsSheet, "F", "F", 60)
	f.SetColWidth(importsSheet, "G", "G", 12)
	return nil
}

func (e *ExcelWriter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
