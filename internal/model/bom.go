package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a quantity cell does not hold a number
var ErrInvalidQuantity = errors.New("quantity is not a number")

// BOMFile represents one spreadsheet discovered in the input directory
type BOMFile struct {
	Path    string   // Absolute path of the spreadsheet on disk
	Name    string   // File name as listed in the directory (e.g., "MX-200.xlsx")
	Sheet   string   // Name of the worksheet the rows were read from
	Title   string   // Title cell, used as the BOM name in the portal
	NumRows int      // Total row count of the worksheet, header rows included
	Rows    []BOMRow // Data rows, header rows excluded
}

// NewBOMFile creates a BOMFile for the given path
func NewBOMFile(path string) *BOMFile {
	return &BOMFile{
		Path: path,
		Name: filepath.Base(path),
		Rows: make([]BOMRow, 0),
	}
}

// LastIndex returns the spreadsheet index of the last data row, or 0 if there are none.
// The portal removes the trailing blank row by this index.
func (f *BOMFile) LastIndex() int {
	if len(f.Rows) == 0 {
		return 0
	}
	return f.Rows[len(f.Rows)-1].Index
}

// BOMRow is one positional data record of a BOM spreadsheet
type BOMRow struct {
	Index    int      // 0-based spreadsheet row index
	PartID   string   // Part identifier, typed into the dropdown search box
	Quantity Quantity // Quantity cell
	Remarks  string   // Free text remarks
}

// UIRow returns the 1-based position of the form table row this data row fills.
// The first data row sits right after the 2-row header, so it lands in table row 1.
func (r BOMRow) UIRow(headerRows int) int {
	return r.Index - headerRows + 1
}

// Quantity holds a raw quantity cell as read from the worksheet
type Quantity struct {
	Raw string
}

// Format renders the quantity the way the portal expects it
func (q Quantity) Format() (string, error) {
	return FormatQuantity(q.Raw)
}

// FormatQuantity renders a quantity cell value.
// Exact integers are written as integer literals ("5" for 5.0); everything else keeps its
// shortest decimal form ("2.5"). Empty and non-numeric values are rejected.
func FormatQuantity(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty cell", ErrInvalidQuantity)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}

	if d.IsInteger() {
		return d.Truncate(0).String(), nil
	}
	return d.String(), nil
}
