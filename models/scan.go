package models

import "time"

// ScanEntry is one row of the append-only hazard-scan log. The rate limiter
// counts entries newer than the trailing window at check time; rows are never
// updated. Old rows are swept by the scan log sweeper rather than left to
// accumulate forever.
type ScanEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for ScanEntry model.
func (ScanEntry) TableName() string {
	return "scan_log"
}
