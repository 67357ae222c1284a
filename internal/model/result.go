package model

import "time"

// ImportStatus is the outcome of importing one BOM file
type ImportStatus string

const (
	StatusImported ImportStatus = "IMPORTED"
	StatusFailed   ImportStatus = "FAILED"
	StatusSkipped  ImportStatus = "SKIPPED"
)

// ImportResult records what happened to one BOM file
type ImportResult struct {
	File         string        `json:"file"`
	Title        string        `json:"title"`
	RowsRead     int           `json:"rows_read"`
	RowsAdded    int           `json:"rows_added"`
	RemovedIndex int           `json:"removed_index"`
	Status       ImportStatus  `json:"status"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// RunSummary aggregates one full run of the importer
type RunSummary struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Portal     string         `json:"portal"`
	Driver     string         `json:"driver"`
	InputDir   string         `json:"input_dir"`
	DryRun     bool           `json:"dry_run"`
	Aborted    bool           `json:"aborted"`
	Results    []ImportResult `json:"results"`
}

// NewRunSummary creates an empty summary stamped with the current time
func NewRunSummary(portal, driver, inputDir string, dryRun bool) *RunSummary {
	return &RunSummary{
		StartedAt: time.Now(),
		Portal:    portal,
		Driver:    driver,
		InputDir:  inputDir,
		DryRun:    dryRun,
		Results:   make([]ImportResult, 0),
	}
}

// Count returns the number of results with the given status
func (s *RunSummary) Count(status ImportStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// TotalRows returns the number of form rows filled across all imported files
func (s *RunSummary) TotalRows() int {
	total := 0
	for _, r := range s.Results {
		if r.Status == StatusImported {
			total += r.RowsAdded
		}
	}
	return total
}

// Elapsed returns the wall time of the run
func (s *RunSummary) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
