package repository

import (
	"errors"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanRepository manages the append-only hazard-scan log consumed by the rate
// limiter. Entries are inserted, counted against a trailing window, and swept
// once they can no longer influence any rate decision.
type ScanRepository interface {
	CountSince(userID string, cutoff time.Time) (int64, error)
	Record(userID string) error
	PruneBefore(cutoff time.Time) (int64, error)
}

type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository creates a new instance of ScanRepository.
func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

// CountSince counts the user's scan entries newer than cutoff. The limiter
// self-expires through this filter; rows older than cutoff simply stop
// counting.
func (r *scanRepository) CountSince(userID string, cutoff time.Time) (int64, error) {
	if userID == "" {
		return 0, errors.New("user ID cannot be empty")
	}
	var count int64
	err := r.db.Model(&models.ScanEntry{}).
		Where("user_id = ? AND created_at > ?", userID, cutoff).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [ScanRepository] Failed to count scan entries for user %s: %v", userID, err)
		return 0, err
	}
	return count, nil
}

// Record appends one scan entry for the user. Entries are never updated.
func (r *scanRepository) Record(userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	entry := models.ScanEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("ERROR: [ScanRepository] Failed to record scan entry for user %s: %v", userID, err)
		return err
	}
	return nil
}

// PruneBefore deletes entries older than cutoff and returns how many were
// removed. The sweeper calls this periodically so the log does not grow
// without bound.
func (r *scanRepository) PruneBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at <= ?", cutoff).Delete(&models.ScanEntry{})
	if res.Error != nil {
		log.Printf("ERROR: [ScanRepository] Failed to prune scan log before %s: %v", cutoff, res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
