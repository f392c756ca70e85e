package repository

import (
	"errors"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"gorm.io/gorm"
)

// RefillInterval is how long a vet-usage bucket lasts before it is refilled
// wholesale on the next consume.
const RefillInterval = 24 * time.Hour

// UsageRepository manages the AI-vet daily message bucket. The bucket refills
// wholesale once RefillInterval has elapsed since the last refill; it does not
// leak smoothly.
type UsageRepository interface {
	// ConsumeMessage takes one message from the user's bucket. It returns the
	// remaining allowance after the call and whether the message was allowed.
	ConsumeMessage(userID string, dailyLimit int) (remaining int, allowed bool, err error)
	// Peek reports the remaining allowance without consuming.
	Peek(userID string, dailyLimit int) (int, error)
}

type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new instance of UsageRepository.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) ConsumeMessage(userID string, dailyLimit int) (int, bool, error) {
	if userID == "" {
		return 0, false, errors.New("user ID cannot be empty")
	}
	if dailyLimit <= 0 {
		return 0, false, nil
	}

	now := time.Now().UTC()
	refillCutoff := now.Add(-RefillInterval)
	remaining := 0
	allowed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Fast path: bucket is live and under the daily limit.
		res := tx.Model(&models.VetUsage{}).
			Where("user_id = ? AND last_refill > ? AND messages_used < ?", userID, refillCutoff, dailyLimit).
			Updates(map[string]interface{}{
				"messages_used": gorm.Expr("messages_used + 1"),
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Stale bucket: refill wholesale and consume the first message.
			res = tx.Model(&models.VetUsage{}).
				Where("user_id = ? AND last_refill <= ?", userID, refillCutoff).
				Updates(map[string]interface{}{
					"messages_used": 1,
					"last_refill":   now,
					"updated_at":    now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Either no row yet, or the bucket is live and exhausted.
				var existing models.VetUsage
				err := tx.First(&existing, "user_id = ?", userID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					usage := models.VetUsage{UserID: userID, MessagesUsed: 1, LastRefill: now}
					if createErr := tx.Create(&usage).Error; createErr != nil {
						return createErr
					}
					remaining = dailyLimit - 1
					allowed = true
					return nil
				}
				if err != nil {
					return err
				}
				remaining = 0
				allowed = false
				return nil
			}
		}

		var usage models.VetUsage
		if err := tx.First(&usage, "user_id = ?", userID).Error; err != nil {
			return err
		}
		remaining = dailyLimit - usage.MessagesUsed
		if remaining < 0 {
			remaining = 0
		}
		allowed = true
		return nil
	})
	if err != nil {
		log.Printf("ERROR: [UsageRepository] ConsumeMessage failed for user %s: %v", userID, err)
		return 0, false, err
	}
	if !allowed {
		log.Printf("INFO: [UsageRepository] Daily message bucket exhausted for user %s (limit %d).", userID, dailyLimit)
	}
	return remaining, allowed, nil
}

func (r *usageRepository) Peek(userID string, dailyLimit int) (int, error) {
	if userID == "" {
		return 0, errors.New("user ID cannot be empty")
	}
	var usage models.VetUsage
	err := r.db.First(&usage, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dailyLimit, nil
		}
		log.Printf("ERROR: [UsageRepository] Failed to peek usage for user %s: %v", userID, err)
		return 0, err
	}
	// A stale bucket counts as full again; the next consume performs the
	// actual refill.
	if time.Now().UTC().Sub(usage.LastRefill) >= RefillInterval {
		return dailyLimit, nil
	}
	remaining := dailyLimit - usage.MessagesUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
