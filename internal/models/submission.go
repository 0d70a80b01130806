// Package models holds the data types shared between the submission
// composer and the backend repositories.
package models

import (
	"time"

	"github.com/dlebedev/checkride/internal/record"
)

// SubmissionStatus values. A submission is created exactly once and is
// immutable from this core's perspective afterwards.
const StatusSubmitted = "submitted"

// BatterySummary aggregates the numeric battery-cell readings of a record.
type BatterySummary struct {
	CellCount   int     `json:"cell_count"`
	MinVoltage  float64 `json:"min_voltage"`
	MaxVoltage  float64 `json:"max_voltage"`
	MeanVoltage float64 `json:"mean_voltage"`
}

// ChecklistSummary counts the boolean checklist flags across all sections.
type ChecklistSummary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Submission is the materialized inspection record plus its identifiers and
// derived aggregates, as persisted in the backend document store.
type Submission struct {
	ID            string
	OwnerID       string
	AppointmentID string
	Record        record.Record
	Battery       BatterySummary
	Checklist     ChecklistSummary
	Status        string
	CreatedAt     time.Time
}
