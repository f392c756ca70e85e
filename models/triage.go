package models

import "time"

// TriageCacheEntry caches a hazard classification keyed by the content hash of
// the scanned image. Hits bump HitCount and LastAccessedAt; entries past
// ExpiresAt are treated as misses on lookup but are kept in storage for
// analytics rather than deleted.
type TriageCacheEntry struct {
	ImageHash        string    `json:"image_hash" gorm:"primaryKey"`
	ObjectIdentified string    `json:"object_identified"`
	HazardType       string    `json:"hazard_type"`
	ToxicityLevel    string    `json:"toxicity_level"`
	ImmediateAction  string    `json:"immediate_action"`
	HitCount         int       `json:"hit_count" gorm:"default:0"`
	ExpiresAt        time.Time `json:"expires_at"`
	LastAccessedAt   time.Time `json:"last_accessed_at"`
	CreatedAt        time.Time // Automatically managed by GORM
}

// TableName specifies the table name for TriageCacheEntry model.
func (TriageCacheEntry) TableName() string {
	return "triage_cache"
}

// TriageResult is the classification payload returned to clients, both for
// cache hits and for fresh classifier verdicts.
type TriageResult struct {
	ObjectIdentified string `json:"object_identified"`
	HazardType       string `json:"hazard_type"`
	ToxicityLevel    string `json:"toxicity_level"`
	ImmediateAction  string `json:"immediate_action"`
}

// Result converts a cache entry back into the client-facing payload.
func (e *TriageCacheEntry) Result() TriageResult {
	return TriageResult{
		ObjectIdentified: e.ObjectIdentified,
		HazardType:       e.HazardType,
		ToxicityLevel:    e.ToxicityLevel,
		ImmediateAction:  e.ImmediateAction,
	}
}
