// Package resultstore provides storage for benchmark results: a SQLite run
// history and JSON or YAML result documents.
package resultstore

import (
	"time"
)

// Evaluation statuses recorded for a method.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// Record is the outcome of one method in a benchmark run.
type Record struct {
	Method           string             `json:"method" yaml:"method"`
	Summary          string             `json:"summary" yaml:"summary"`
	Metrics          map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	EvaluationStatus string             `json:"evaluation_status" yaml:"evaluation_status"`
	Message          string             `json:"message,omitempty" yaml:"message,omitempty"`
	ErrorMessage     string             `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// Run is one benchmark execution.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	// Source names the benchmarked document, for example a file path.
	Source  string   `json:"source" yaml:"source"`
	Records []Record `json:"records" yaml:"records"`
}

// StoredResult is a Record together with the run it belongs to.
type StoredResult struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Record    `yaml:",inline"`
}

// ResultStore defines the interface for persisting benchmark runs.
type ResultStore interface {
	// Initialize opens the store at dbPath, creating it if needed.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// SaveRun appends a run and returns its id. An empty run id is replaced
	// by a generated one.
	SaveRun(run Run) (string, error)

	// GetRun returns the run with the given id.
	GetRun(id string) (*Run, error)

	// Latest returns the most recent result of every method, ordered by method.
	Latest() ([]StoredResult, error)
}
