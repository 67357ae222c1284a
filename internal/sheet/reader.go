package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bom-autofill/internal/model"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Layout describes where the title and the data columns live in a BOM worksheet
type Layout struct {
	TitleCell      string
	HeaderRows     int
	PartColumn     int
	QuantityColumn int
	RemarksColumn  int
}

// DefaultLayout is the layout of the BOM templates in use: title in A1, two header rows,
// part number in B, quantity in D and remarks in G
func DefaultLayout() Layout {
	return Layout{
		TitleCell:      "A1",
		HeaderRows:     2,
		PartColumn:     1,
		QuantityColumn: 3,
		RemarksColumn:  6,
	}
}

// ScanDirectory lists the BOM spreadsheets directly inside dir.
// Only regular files ending in ext (case-insensitive) are kept, in the order the
// file system listing returns them. Office lock files ("~$name.xlsx") are skipped.
func ScanDirectory(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	ext = strings.ToLower(ext)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), ext) {
			files = append(files, filepath.Join(dir, name))
		}
	}

	return files, nil
}

// Open reads the first worksheet of a BOM spreadsheet
func Open(path string, layout Layout) (*model.BOMFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no worksheets", filepath.Base(path))
	}

	bom := model.NewBOMFile(path)
	bom.Sheet = sheets[0]

	title, err := f.GetCellValue(bom.Sheet, layout.TitleCell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read title cell %s: %w", layout.TitleCell, err)
	}
	bom.Title = normalizeText(title)

	// Raw values keep numbers unformatted so quantities are not shaped by the cell's number format
	rows, err := f.GetRows(bom.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", bom.Sheet, err)
	}
	bom.NumRows = len(rows)

	for i := layout.HeaderRows; i < len(rows); i++ {
		cells := rows[i]
		bom.Rows = append(bom.Rows, model.BOMRow{
			Index:    i,
			PartID:   normalizeText(cellAt(cells, layout.PartColumn)),
			Quantity: model.Quantity{Raw: strings.TrimSpace(cellAt(cells, layout.QuantityColumn))},
			Remarks:  normalizeText(cellAt(cells, layout.RemarksColumn)),
		})
	}

	return bom, nil
}

// cellAt returns the cell at col, or "" when the row is shorter
// (excelize trims trailing empty cells of a row)
func cellAt(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// normalizeText trims the cell and converts it to NFC, so text typed into the portal
// search matches what the portal stores regardless of how the sheet was authored
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
