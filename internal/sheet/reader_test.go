package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

type fixtureRow struct {
	part    string
	qty     interface{}
	remarks string
}

// writeBOM creates a workbook with the standard layout: title, two header rows, data rows
func writeBOM(t *testing.T, path, title string, rows []fixtureRow) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", title)
	f.SetCellValue(sheet, "A2", "No")
	f.SetCellValue(sheet, "B2", "Part Number")
	f.SetCellValue(sheet, "D2", "Qty")
	f.SetCellValue(sheet, "G2", "Remarks")

	for i, r := range rows {
		n := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), r.part)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), r.qty)
		if r.remarks != "" {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", n), r.remarks)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture %s: %v", path, err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MX-200.xlsx")
	writeBOM(t, path, "  MX-200 Main Board ", []fixtureRow{
		{"RES-10K", 5, "R1-R5"},
		{"CAP-100N", 2.5, ""},
		{"Café-LED", "3", "front panel"},
	})

	bom, err := Open(path, DefaultLayout())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if bom.Title != "MX-200 Main Board" {
		t.Errorf("Title = %q, expected trimmed title", bom.Title)
	}
	if bom.Name != "MX-200.xlsx" {
		t.Errorf("Name = %s", bom.Name)
	}
	if bom.NumRows != 5 {
		t.Errorf("NumRows = %d, expected 5", bom.NumRows)
	}
	if len(bom.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, expected 3", len(bom.Rows))
	}

	first := bom.Rows[0]
	if first.Index != 2 || first.PartID != "RES-10K" || first.Quantity.Raw != "5" || first.Remarks != "R1-R5" {
		t.Errorf("Unexpected first row: %+v", first)
	}
	if bom.Rows[1].Quantity.Raw != "2.5" {
		t.Errorf("Quantity.Raw = %q, expected 2.5", bom.Rows[1].Quantity.Raw)
	}
	if bom.Rows[1].Remarks != "" {
		t.Errorf("Remarks = %q, expected empty for a missing cell", bom.Rows[1].Remarks)
	}
	if bom.Rows[2].PartID != "Café-LED" {
		t.Errorf("PartID = %q, expected NFC form", bom.Rows[2].PartID)
	}
	if bom.LastIndex() != 4 {
		t.Errorf("LastIndex() = %d, expected 4", bom.LastIndex())
	}
}

func TestOpenHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeBOM(t, path, "Empty BOM", nil)

	bom, err := Open(path, DefaultLayout())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if bom.NumRows != 2 {
		t.Errorf("NumRows = %d, expected 2", bom.NumRows)
	}
	if len(bom.Rows) != 0 {
		t.Errorf("len(Rows) = %d, expected 0", len(bom.Rows))
	}
	if bom.LastIndex() != 0 {
		t.Errorf("LastIndex() = %d, expected 0", bom.LastIndex())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultLayout()); err == nil {
		t.Error("Expected error for a missing workbook")
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xlsx", "C.XLSX", "notes.txt", "old.xls", "~$a.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDirectory(dir, ".xlsx")
	if err != nil {
		t.Fatalf("ScanDirectory() failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "C.XLSX"),
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.xlsx"),
	}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("ScanDirectory() = %v, expected %v", files, expected)
	}

	again, err := ScanDirectory(dir, ".xlsx")
	if err != nil {
		t.Fatalf("second ScanDirectory() failed: %v", err)
	}
	if !reflect.DeepEqual(files, again) {
		t.Errorf("scan is not idempotent: %v vs %v", files, again)
	}
}

func TestScanDirectoryMissing(t *testing.T) {
	if _, err := ScanDirectory("/nonexistent/boms", ".xlsx"); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
