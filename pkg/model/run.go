package model

import (
	"time"
)

// Run is one recorded matrix run.
type Run struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	ConfigDigest string
	// Interpreters is the comma-joined interpreter list of the run.
	Interpreters string
	CellsTotal   int
	Passed       int
	Failed       int
	Errored      int
	Excluded     int
	Status       string
}

func (r Run) TableName() string {
	return "runs"
}
