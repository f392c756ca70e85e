package repository

import (
	"errors"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCacheMiss is returned by Lookup when no live entry exists for a hash.
// Expired entries also surface as ErrCacheMiss; they stay in storage.
var ErrCacheMiss = errors.New("triage cache miss")

// TriageRepository is the content-hash-keyed cache of hazard classifications.
type TriageRepository interface {
	// Lookup returns the live entry for imageHash, atomically bumping its hit
	// count and last-accessed time. A missing or expired entry returns
	// ErrCacheMiss.
	Lookup(imageHash string) (*models.TriageCacheEntry, error)
	Save(entry *models.TriageCacheEntry) error
}

type triageRepository struct {
	db *gorm.DB
}

// NewTriageRepository creates a new instance of TriageRepository.
func NewTriageRepository(db *gorm.DB) TriageRepository {
	return &triageRepository{db: db}
}

func (r *triageRepository) Lookup(imageHash string) (*models.TriageCacheEntry, error) {
	if imageHash == "" {
		return nil, errors.New("image hash cannot be empty")
	}
	now := time.Now().UTC()

	// Bump first, then read: the conditional UPDATE is the atomic hit, and a
	// zero row count is a miss (absent or expired).
	res := r.db.Model(&models.TriageCacheEntry{}).
		Where("image_hash = ? AND expires_at > ?", imageHash, now).
		Updates(map[string]interface{}{
			"hit_count":        gorm.Expr("hit_count + 1"),
			"last_accessed_at": now,
		})
	if res.Error != nil {
		log.Printf("ERROR: [TriageRepository] Failed to bump hit count for hash %s: %v", imageHash, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCacheMiss
	}

	var entry models.TriageCacheEntry
	if err := r.db.First(&entry, "image_hash = ?", imageHash).Error; err != nil {
		log.Printf("ERROR: [TriageRepository] Failed to fetch cache entry for hash %s after hit: %v", imageHash, err)
		return nil, err
	}
	log.Printf("INFO: [TriageRepository] Cache hit for hash %s (hit count now %d).", imageHash, entry.HitCount)
	return &entry, nil
}

// Save upserts a classification keyed by its image hash. At most one entry
// exists per hash; re-classifying a hash replaces the stale verdict and
// resets its expiry.
func (r *triageRepository) Save(entry *models.TriageCacheEntry) error {
	if entry == nil || entry.ImageHash == "" {
		return errors.New("cache entry must carry an image hash")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "image_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"object_identified", "hazard_type", "toxicity_level",
			"immediate_action", "expires_at", "last_accessed_at",
		}),
	}).Create(entry).Error
	if err != nil {
		log.Printf("ERROR: [TriageRepository] Failed to save cache entry for hash %s: %v", entry.ImageHash, err)
		return err
	}
	log.Printf("INFO: [TriageRepository] Saved cache entry for hash %s (expires %s).", entry.ImageHash, entry.ExpiresAt)
	return nil
}
