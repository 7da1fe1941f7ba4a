package model

import (
	"time"
)

// Artifact is one uploaded run artifact, usually a coverage report.
type Artifact struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	RunID      string `gorm:"index"`
	Env        string
	Key        string
	Size       int64
	UploadedAt time.Time
}

func (a Artifact) TableName() string {
	return "artifacts"
}
