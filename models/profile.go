package models

import "time"

// Subscription tiers. Tier gates numeric limits and feature bypasses; a user
// without a profile row is treated as TierFree.
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierGold    = "gold"
)

// Profile is the slice of the user profile this service reads: the
// subscription tier. Tier is read-only from the metering subsystem's
// perspective.
type Profile struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	DisplayName string    `json:"display_name"`
	Tier        string    `json:"tier" gorm:"default:free"`
	CreatedAt   time.Time // Automatically managed by GORM
	UpdatedAt   time.Time // Automatically managed by GORM
}

// TableName specifies the table name for Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// ValidTier reports whether s is a known subscription tier.
func ValidTier(s string) bool {
	return s == TierFree || s == TierPremium || s == TierGold
}
