package model

import (
	"errors"
	"testing"
)

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"5", "5"},
		{"5.0", "5"},
		{"12.000", "12"},
		{"2.5", "2.5"},
		{"0.25", "0.25"},
		{" 3 ", "3"},
		{"1e3", "1000"},
		{"-4", "-4"},
		{"0.30000000000000004", "0.30000000000000004"},
	}

	for _, tt := range tests {
		result, err := FormatQuantity(tt.raw)
		if err != nil {
			t.Errorf("FormatQuantity(%q) returned error: %v", tt.raw, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("FormatQuantity(%q) = %s, expected %s", tt.raw, result, tt.expected)
		}
	}
}

func TestFormatQuantityRejectsText(t *testing.T) {
	for _, raw := range []string{"", "  ", "ten", "5 pcs"} {
		_, err := FormatQuantity(raw)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("FormatQuantity(%q) error = %v, expected ErrInvalidQuantity", raw, err)
		}
	}
}

func TestUIRow(t *testing.T) {
	tests := []struct {
		index      int
		headerRows int
		expected   int
	}{
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 3},
		{1, 1, 1},
	}

	for _, tt := range tests {
		row := BOMRow{Index: tt.index}
		if got := row.UIRow(tt.headerRows); got != tt.expected {
			t.Errorf("UIRow(%d) with %d header rows = %d, expected %d", tt.index, tt.headerRows, got, tt.expected)
		}
	}
}

func TestLastIndex(t *testing.T) {
	f := NewBOMFile("/tmp/boms/empty.xlsx")
	if f.Name != "empty.xlsx" {
		t.Errorf("Name = %s, expected empty.xlsx", f.Name)
	}
	if f.LastIndex() != 0 {
		t.Errorf("LastIndex() on empty file = %d, expected 0", f.LastIndex())
	}

	f.Rows = append(f.Rows, BOMRow{Index: 2}, BOMRow{Index: 3}, BOMRow{Index: 4})
	if f.LastIndex() != 4 {
		t.Errorf("LastIndex() = %d, expected 4", f.LastIndex())
	}
}

func TestRunSummaryCounts(t *testing.T) {
	s := NewRunSummary("https://portal.example", "dry-run", "/tmp/boms", true)
	s.Results = append(s.Results,
		ImportResult{File: "a.xlsx", Status: StatusImported, RowsAdded: 3},
		ImportResult{File: "b.xlsx", Status: StatusImported, RowsAdded: 2},
		ImportResult{File: "c.xlsx", Status: StatusFailed, RowsAdded: 1},
		ImportResult{File: "d.xlsx", Status: StatusSkipped},
	)

	if got := s.Count(StatusImported); got != 2 {
		t.Errorf("Count(IMPORTED) = %d, expected 2", got)
	}
	if got := s.Count(StatusSkipped); got != 1 {
		t.Errorf("Count(SKIPPED) = %d, expected 1", got)
	}
	if got := s.TotalRows(); got != 5 {
		t.Errorf("TotalRows() = %d, expected 5", got)
	}
}
