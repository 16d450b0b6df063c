package entities

import "time"

// BatchSummary counts the outcome of a corpus run.
// Processed documents produced at least one affiliation, skipped documents
// parsed cleanly but had none, and errored documents could not be read.
type BatchSummary struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errored   int `json:"errored"`
}

// BuildRun is the persisted record of one corpus build.
type BuildRun struct {
	ID            string       `json:"id"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	ReferenceYear int          `json:"reference_year"`
	Summary       BatchSummary `json:"summary"`
	Pairs         int          `json:"pairs"`
}

// RunError is a document that failed during a build.
type RunError struct {
	RunID   string `json:"run_id"`
	Path    string `json:"path"`
	Message string `json:"message"`
}
