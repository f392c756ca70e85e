package repository

import (
	"errors"
	"log"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository reads and writes the tier slice of user profiles.
type ProfileRepository interface {
	// GetTier returns the user's subscription tier. A missing profile row
	// defaults to the free tier and is not an error.
	GetTier(userID string) (string, error)
	GetProfile(userID string) (*models.Profile, error)
	Upsert(profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetTier(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID cannot be empty")
	}
	var profile models.Profile
	err := r.db.Select("tier").First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TierFree, nil
		}
		log.Printf("ERROR: [ProfileRepository] Failed to fetch tier for user %s: %v", userID, err)
		return "", err
	}
	if !models.ValidTier(profile.Tier) {
		log.Printf("WARN: [ProfileRepository] User %s carries unknown tier '%s', treating as free.", userID, profile.Tier)
		return models.TierFree, nil
	}
	return profile.Tier, nil
}

func (r *profileRepository) GetProfile(userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	var profile models.Profile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(profile *models.Profile) error {
	if profile == nil || profile.UserID == "" {
		return errors.New("profile must carry a user ID")
	}
	if profile.Tier == "" {
		profile.Tier = models.TierFree
	}
	if !models.ValidTier(profile.Tier) {
		return errors.New("unknown tier: " + profile.Tier)
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "tier"}),
	}).Create(profile).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to upsert profile for user %s: %v", profile.UserID, err)
		return err
	}
	return nil
}
