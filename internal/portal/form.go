package portal

import (
	"context"
	"fmt"

	"bom-autofill/internal/browser"
	"bom-autofill/internal/config"
	"bom-autofill/internal/logger"
	"bom-autofill/internal/model"
)

// Steps of filling one form row, reported in RowError
const (
	StepSelectPart = "select-part"
	StepSearchPart = "search-part"
	StepCommitPart = "commit-part"
	StepQuantity   = "quantity"
	StepRemarks    = "remarks"
	StepAddRow     = "add-row"
)

// RowError reports which step of which spreadsheet row failed
type RowError struct {
	File string
	Row  int // 0-based spreadsheet index
	Step string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d (%s): %v", e.File, e.Row+1, e.Step, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// FormResult summarises one populated creation form
type FormResult struct {
	RowsAdded    int // Data rows written into the form
	RemovedIndex int // Index of the last data row, 0 when the sheet had none
}

// FormSession fills one BOM creation form. The cursor is the spreadsheet index of the
// row being written; it only lives as long as the form.
type FormSession struct {
	session *Session
	bom     *model.BOMFile
	cursor  int
	added   int
}

// Cursor returns the spreadsheet index of the row currently being written
func (f *FormSession) Cursor() int {
	return f.cursor
}

// Populate writes the title and every data row, then removes the trailing blank row
// the last add-row click left behind (or the template row when there was no data).
func (f *FormSession) Populate(ctx context.Context) (FormResult, error) {
	s := f.session
	d := s.driver

	if err := d.SendKeys(ctx, browser.Locator(s.locators.BOMName), f.bom.Title); err != nil {
		return FormResult{}, fmt.Errorf("failed to enter BOM name: %w", err)
	}

	for _, row := range f.bom.Rows {
		f.cursor = row.Index
		if step, err := f.fillRow(ctx, row); err != nil {
			logger.LogRowError(f.bom.Name, row.Index, step, err)
			return FormResult{RowsAdded: f.added}, &RowError{File: f.bom.Name, Row: row.Index, Step: step, Err: err}
		}
		f.added++
	}

	result := FormResult{RowsAdded: f.added, RemovedIndex: f.bom.LastIndex()}
	remove := s.locators.RemoveRow.ForRow(f.removalRow())
	if err := d.Click(ctx, browser.Locator(remove)); err != nil {
		return result, fmt.Errorf("failed to remove trailing row: %w", err)
	}

	logger.Debug("%s: %d rows written, removed row %d", f.bom.Name, result.RowsAdded, result.RemovedIndex)
	return result, nil
}

// removalRow is the 1-based table row of the blank row to remove.
// After n data rows the form holds n filled rows plus one blank row; with no data
// the untouched template row is the first row.
func (f *FormSession) removalRow() int {
	if len(f.bom.Rows) == 0 {
		return 1
	}
	return f.bom.LastIndex() - f.session.headerRows + 2
}

// fillRow writes one data row and appends the next blank row.
// It returns the step that failed.
func (f *FormSession) fillRow(ctx context.Context, row model.BOMRow) (string, error) {
	s := f.session
	d := s.driver
	search := browser.Locator(s.locators.PartSearch)

	if err := d.Click(ctx, browser.Locator(s.locators.PartSelect)); err != nil {
		return StepSelectPart, err
	}
	if _, err := s.waitFor(ctx, s.locators.PartSearch, s.waits.Element); err != nil {
		return StepSelectPart, err
	}

	if err := d.SendKeys(ctx, search, row.PartID); err != nil {
		return StepSearchPart, err
	}
	if _, err := s.waitFor(ctx, s.locators.PartResults, s.waits.Element); err != nil {
		return StepSearchPart, err
	}

	if err := f.checkMatches(ctx, row); err != nil {
		return StepCommitPart, err
	}
	if err := d.Press(ctx, search, browser.KeyEnter); err != nil {
		return StepCommitPart, err
	}

	uiRow := row.UIRow(s.headerRows)

	qty, err := row.Quantity.Format()
	if err != nil {
		return StepQuantity, err
	}
	qtyField := browser.Locator(s.locators.QuantityField.ForRow(uiRow))
	if err := d.SendKeys(ctx, qtyField, qty); err != nil {
		return StepQuantity, err
	}
	if err := d.Press(ctx, qtyField, browser.KeyTab); err != nil {
		return StepQuantity, err
	}

	if err := d.SendKeys(ctx, browser.Locator(s.locators.RemarksField.ForRow(uiRow)), row.Remarks); err != nil {
		return StepRemarks, err
	}

	if err := d.Click(ctx, browser.Locator(s.locators.AddRow)); err != nil {
		return StepAddRow, err
	}
	if _, err := s.waitFor(ctx, s.locators.PartSelect, s.waits.Element); err != nil {
		return StepAddRow, err
	}

	return "", nil
}

// checkMatches applies the no-match policy to the dropdown suggestions.
// Several matches are accepted: the highlighted first suggestion is committed.
func (f *FormSession) checkMatches(ctx context.Context, row model.BOMRow) error {
	s := f.session
	n, err := s.driver.Count(ctx, browser.Locator(s.locators.PartResults))
	if err != nil {
		return err
	}

	switch {
	case n == 0 && s.onNoMatch == config.OnNoMatchFail:
		return fmt.Errorf("%w %q", ErrNoMatch, row.PartID)
	case n == 0:
		logger.Warn("%s row %d: no suggestion for %q, committing anyway", f.bom.Name, row.Index+1, row.PartID)
	case n > 1:
		logger.Warn("%s row %d: %d suggestions for %q, committing the first one", f.bom.Name, row.Index+1, n, row.PartID)
	}
	return nil
}
