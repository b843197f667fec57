package database

import (
	"time"
)

// Run statuses stored in the runs table. They mirror the progress
// vocabulary reported to the polling surface.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusError    = "error"
)

// Run is one recorded analysis run.
type Run struct {
	ID            string
	Target        string // The reference the user submitted
	PageID        string
	PageName      string
	Status        string
	Error         string
	ReportFile    string
	TotalScripts  int
	UniqueScripts int
	CreatedAt     time.Time
	CompletedAt   *time.Time
}
