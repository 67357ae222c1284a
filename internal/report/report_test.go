package report

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"bom-autofill/internal/config"
	"bom-autofill/internal/model"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

func sampleSummary() *model.RunSummary {
	summary := model.NewRunSummary("https://portal.example", config.DriverDryRun, "/boms", true)
	summary.FinishedAt = summary.StartedAt.Add(42 * time.Second)
	summary.Aborted = true
	summary.Results = []model.ImportResult{
		{File: "MX-100.xlsx", Title: "MX-100", RowsRead: 3, RowsAdded: 3, RemovedIndex: 4, Status: model.StatusImported, Duration: 2 * time.Second},
		{File: "MX-200.xlsx", Title: "MX-200", RowsRead: 2, RowsAdded: 1, Status: model.StatusFailed, Error: "MX-200.xlsx row 4 (quantity): quantity is not a number: \"lots\""},
		{File: "MX-300.xlsx", Status: model.StatusSkipped},
	}
	return summary
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Output: config.OutputConfig{Dir: t.TempDir(), FileName: "bom-import-report"},
	}
}

func TestGetWriters(t *testing.T) {
	tests := []struct {
		formats  []string
		expected []string
	}{
		{[]string{"excel", "json"}, []string{"excel", "json"}},
		{[]string{"XLSX", " docx "}, []string{"excel", "word"}},
		{[]string{"excel", "xlsx", "excel"}, []string{"excel"}},
		{[]string{"html", "pdf"}, nil},
	}

	for _, tt := range tests {
		var got []string
		for _, w := range GetWriters(tt.formats) {
			got = append(got, w.Format())
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("GetWriters(%v) = %v, expected %v", tt.formats, got, tt.expected)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats("excel, json,,word ")
	expected := []string{"excel", "json", "word"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ParseFormats() = %v, expected %v", got, expected)
	}
	if ParseFormats("") != nil {
		t.Error("ParseFormats(\"\") should be empty")
	}
}

func TestExcelWriter(t *testing.T) {
	cfg := testConfig(t)
	if err := NewExcelWriter().Write(sampleSummary(), cfg); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	f, err := excelize.OpenFile(cfg.GetOutputPath(".xlsx"))
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{summarySheet, importsSheet}) {
		t.Errorf("sheets = %v, expected [Summary Imports]", sheets)
	}

	rows, err := f.GetRows(importsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("Imports has %d rows, expected header + 3", len(rows))
	}
	if rows[0][0] != "No" || rows[1][1] != "MX-100.xlsx" || rows[2][4] != "FAILED" {
		t.Errorf("unexpected Imports content: %v", rows)
	}
	if !strings.Contains(rows[2][5], "lots") {
		t.Errorf("error column = %q", rows[2][5])
	}

	imported, _ := f.GetCellValue(summarySheet, "B9")
	if imported != "1" {
		t.Errorf("Imported = %s, expected 1", imported)
	}
}

func TestJSONWriter(t *testing.T) {
	cfg := testConfig(t)
	if err := NewJSONWriter().Write(sampleSummary(), cfg); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(cfg.GetOutputPath(".json"))
	if err != nil {
		t.Fatal(err)
	}

	var decoded model.RunSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if !decoded.Aborted || !decoded.DryRun || len(decoded.Results) != 3 {
		t.Errorf("unexpected summary: %+v", decoded)
	}
	if decoded.Results[2].Status != model.StatusSkipped {
		t.Errorf("status = %s, expected SKIPPED", decoded.Results[2].Status)
	}
	if !strings.Contains(string(data), `"rows_added": 3`) {
		t.Error("expected snake_case keys in the report")
	}
}

func TestWordWriter(t *testing.T) {
	cfg := testConfig(t)
	if err := NewWordWriter().Write(sampleSummary(), cfg); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	r, err := docx.ReadDocxFile(cfg.GetOutputPath(".docx"))
	if err != nil {
		t.Fatalf("Failed to open Word report: %v", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	for _, want := range []string{"https://portal.example", "MX-100.xlsx", "MX-300.xlsx", "SKIPPED"} {
		if !strings.Contains(content, want) {
			t.Errorf("Word report missing %q", want)
		}
	}
	if strings.Contains(content, "{{") {
		t.Error("Word report still contains placeholders")
	}
}

func TestBuildContent(t *testing.T) {
	content := buildContent(sampleSummary())
	if !strings.Contains(content, "imported 1, failed 1, skipped 1") {
		t.Errorf("missing counts: %s", content)
	}
	if !strings.Contains(content, "stopped at the first failure") {
		t.Error("aborted run not reported")
	}
}
