package portal

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"bom-autofill/internal/logger"
	"bom-autofill/internal/model"
	"bom-autofill/internal/sheet"
	"bom-autofill/internal/ui"
)

// Importer creates one portal BOM per spreadsheet, in directory order
type Importer struct {
	session  *Session
	layout   sheet.Layout
	progress *ui.ProgressBar
}

// NewImporter creates an Importer working through session
func NewImporter(session *Session, layout sheet.Layout) *Importer {
	return &Importer{session: session, layout: layout}
}

// WithProgress reports each processed file on bar
func (imp *Importer) WithProgress(bar *ui.ProgressBar) *Importer {
	imp.progress = bar
	return imp
}

// Run imports files one after another and appends a result per file to summary.
// The first failure stops the run: the failing file is FAILED, the rest SKIPPED,
// and the error is returned.
func (imp *Importer) Run(ctx context.Context, files []string, summary *model.RunSummary) error {
	if imp.progress != nil {
		imp.progress.SetTotal(len(files))
	}

	for i, path := range files {
		if imp.progress != nil {
			imp.progress.Describe(filepath.Base(path))
		}

		result, err := imp.importFile(ctx, path)
		summary.Results = append(summary.Results, result)
		if err != nil {
			logger.Error("Import of %s failed: %v", result.File, err)
			imp.skip(files[i+1:], summary)
			summary.Aborted = true
			return fmt.Errorf("%s: %w", result.File, err)
		}

		logger.Info("Imported %s (%q, %d rows) in %s", result.File, result.Title, result.RowsAdded, result.Duration.Round(time.Millisecond))
		if imp.progress != nil {
			imp.progress.Increment()
		}
	}

	return nil
}

// importFile reads one spreadsheet, fills a fresh creation form and submits it
func (imp *Importer) importFile(ctx context.Context, path string) (model.ImportResult, error) {
	start := time.Now()
	result := model.ImportResult{
		File:   filepath.Base(path),
		Status: model.StatusFailed,
	}
	fail := func(err error) (model.ImportResult, error) {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	bom, err := sheet.Open(path, imp.layout)
	if err != nil {
		return fail(err)
	}
	result.Title = bom.Title
	result.RowsRead = len(bom.Rows)
	logger.Debug("%s: sheet %q, title %q, %d rows (%d data rows)", bom.Name, bom.Sheet, bom.Title, bom.NumRows, len(bom.Rows))

	if err := imp.session.OpenCreateForm(ctx); err != nil {
		return fail(err)
	}

	form := imp.session.NewFormSession(bom)
	filled, err := form.Populate(ctx)
	result.RowsAdded = filled.RowsAdded
	result.RemovedIndex = filled.RemovedIndex
	if err != nil {
		return fail(err)
	}

	if err := imp.session.AttachAndSubmit(ctx, bom.Path); err != nil {
		return fail(err)
	}

	result.Status = model.StatusImported
	result.Duration = time.Since(start)
	return result, nil
}

func (imp *Importer) skip(files []string, summary *model.RunSummary) {
	for _, path := range files {
		summary.Results = append(summary.Results, model.ImportResult{
			File:   filepath.Base(path),
			Status: model.StatusSkipped,
		})
	}
	if len(files) > 0 {
		logger.Warn("Skipped %d remaining file(s)", len(files))
	}
}
