package repository

import (
	"errors"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository is the quota ledger: per-user, per-action counters inside a
// rolling window. CheckAndIncrement is the single atomic entry point; callers
// must never read a counter and write it back themselves.
type QuotaRepository interface {
	// CheckAndIncrement atomically increments the (userID, actionType)
	// counter if it is under limit within the current window, restarting the
	// window when it has lapsed. It reports whether the action is allowed.
	CheckAndIncrement(userID, actionType string, limit int, window time.Duration) (bool, error)
	GetCounter(userID, actionType string) (*models.QuotaCounter, error)
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new instance of QuotaRepository.
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) CheckAndIncrement(userID, actionType string, limit int, window time.Duration) (bool, error) {
	if userID == "" {
		log.Printf("ERROR: [QuotaRepository] CheckAndIncrement: userID cannot be empty.")
		return false, errors.New("user ID cannot be empty")
	}
	if actionType == "" {
		return false, errors.New("action type cannot be empty")
	}
	if limit <= 0 {
		// A non-positive limit admits nothing; do not create a counter row.
		return false, nil
	}

	now := time.Now().UTC()
	cutoff := now.Add(-window)
	allowed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Fast path: bump a live counter that is still under the limit.
		res := tx.Model(&models.QuotaCounter{}).
			Where("user_id = ? AND action_type = ? AND window_start > ? AND count < ?",
				userID, actionType, cutoff, limit).
			Updates(map[string]interface{}{
				"count":      gorm.Expr("count + 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			allowed = true
			return nil
		}

		// No live under-limit row. Restart the window if it has lapsed.
		res = tx.Model(&models.QuotaCounter{}).
			Where("user_id = ? AND action_type = ? AND window_start <= ?",
				userID, actionType, cutoff).
			Updates(map[string]interface{}{
				"count":        1,
				"window_start": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			allowed = true
			return nil
		}

		// No row at all yet: create one with the first unit consumed. A
		// conflict means the row exists, is live, and was at the limit when
		// the fast path ran, so the action is denied.
		counter := models.QuotaCounter{
			UserID:      userID,
			ActionType:  actionType,
			Count:       1,
			WindowStart: now,
		}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter)
		if res.Error != nil {
			return res.Error
		}
		allowed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		log.Printf("ERROR: [QuotaRepository] CheckAndIncrement failed for user %s, action %s: %v", userID, actionType, err)
		return false, err
	}

	if !allowed {
		log.Printf("INFO: [QuotaRepository] Quota denied for user %s, action %s (limit %d).", userID, actionType, limit)
	}
	return allowed, nil
}

// GetCounter retrieves the current counter row, or nil if none exists.
func (r *quotaRepository) GetCounter(userID, actionType string) (*models.QuotaCounter, error) {
	var counter models.QuotaCounter
	err := r.db.First(&counter, "user_id = ? AND action_type = ?", userID, actionType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &counter, nil
}
