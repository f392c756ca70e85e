package models

import "time"

// VetUsage is the per-user daily message bucket for the AI vet. The bucket is
// refilled wholesale when LastRefill is at least 24h old, not leaked smoothly.
type VetUsage struct {
	UserID       string    `json:"user_id" gorm:"primaryKey"`
	MessagesUsed int       `json:"messages_used" gorm:"default:0"`
	LastRefill   time.Time `json:"last_refill"`
	CreatedAt    time.Time // Automatically managed by GORM
	UpdatedAt    time.Time // Automatically managed by GORM
}

// TableName specifies the table name for VetUsage model.
func (VetUsage) TableName() string {
	return "vet_usage"
}
