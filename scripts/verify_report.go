package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

// Checks a run report: every file has a status, failures carry an error,
// and nothing follows a failure except skipped files.
func main() {
	filename := "output/bom-import-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := "Imports"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== RUN REPORT CHECK: %s ===\n", filename)
	fmt.Printf("Total files: %d\n\n", len(rows)-1)

	problems := 0
	failedSeen := false
	for i, row := range rows {
		if i == 0 {
			continue
		}

		get := func(col int) string {
			if col < len(row) {
				return row[col]
			}
			return ""
		}
		file, status, errText := get(1), get(4), get(5)
		fmt.Printf("%3d  %-30s %-9s %s\n", i, file, status, errText)

		switch {
		case file == "" || status == "":
			fmt.Printf("  ❌ row %d: missing file or status\n", i+1)
			problems++
		case status == "FAILED" && errText == "":
			fmt.Printf("  ❌ row %d: failure without error text\n", i+1)
			problems++
		case failedSeen && status != "SKIPPED":
			fmt.Printf("  ❌ row %d: %s after a failure\n", i+1, status)
			problems++
		}
		if status == "FAILED" {
			failedSeen = true
		}
	}

	if problems > 0 {
		fmt.Printf("\n❌ %d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("\n✅ Report is consistent")
}
