package models

import "time"

// Action types metered by the quota ledger.
const (
	ActionDiscoveryProfileView = "discovery_profile_view"
	ActionVisionAttachment     = "vision_attachment"
)

// QuotaCounter tracks per-user, per-action usage inside a rolling 24h window.
// It is only ever mutated through QuotaRepository.CheckAndIncrement, which runs
// the check-and-increment as a single server-side operation; callers never
// read-then-write this row.
type QuotaCounter struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	ActionType  string    `json:"action_type" gorm:"primaryKey"`
	Count       int       `json:"count" gorm:"default:0"`
	WindowStart time.Time `json:"window_start"`
	CreatedAt   time.Time // Automatically managed by GORM
	UpdatedAt   time.Time // Automatically managed by GORM
}

// TableName specifies the table name for QuotaCounter model.
func (QuotaCounter) TableName() string {
	return "quota_counters"
}
