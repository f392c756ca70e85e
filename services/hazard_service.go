package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/config"
	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/repository"
)

// imageHashPattern matches a lowercase hex SHA-256 content hash.
var imageHashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// ScanResult is the hazard-scan response: the classification plus whether it
// was served from the triage cache.
type ScanResult struct {
	Cached bool                `json:"cached"`
	Result models.TriageResult `json:"result"`
}

// HazardService runs the hazard-scan pipeline: rate check, cache lookup, and
// on a miss the classifier call plus bookkeeping. Cache hits are free; only
// misses consume the user's scan allowance.
type HazardService interface {
	Scan(ctx context.Context, userID, imageURL, imageHash string) (*ScanResult, error)
}

type hazardService struct {
	scans      repository.ScanRepository
	cache      repository.TriageRepository
	classifier Classifier
	quotaCfg   config.QuotaConfig
}

// NewHazardService creates a new HazardService with injected dependencies.
func NewHazardService(
	scans repository.ScanRepository,
	cache repository.TriageRepository,
	classifier Classifier,
	quotaCfg config.QuotaConfig,
) HazardService {
	return &hazardService{
		scans:      scans,
		cache:      cache,
		classifier: classifier,
		quotaCfg:   quotaCfg,
	}
}

func (s *hazardService) Scan(ctx context.Context, userID, imageURL, imageHash string) (*ScanResult, error) {
	if userID == "" || imageURL == "" || imageHash == "" {
		return nil, fmt.Errorf("%w: userId, imageUrl and imageHash are required", ErrValidation)
	}
	if !imageHashPattern.MatchString(imageHash) {
		return nil, fmt.Errorf("%w: imageHash must be a lowercase hex sha-256 digest", ErrValidation)
	}

	window := time.Duration(s.quotaCfg.ScanWindowHours) * time.Hour
	cutoff := time.Now().UTC().Add(-window)
	count, err := s.scans.CountSince(userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if count >= int64(s.quotaCfg.ScanLimit) {
		log.Printf("INFO: [HazardService] Scan rate limit hit for user %s (%d in window).", userID, count)
		return nil, ErrRateLimited
	}

	// Cache hit: serve the stored verdict, never touch the classifier or the
	// scan log. Popular images get cheaper for everyone over time.
	entry, err := s.cache.Lookup(imageHash)
	if err == nil {
		return &ScanResult{Cached: true, Result: entry.Result()}, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	// Miss: classify, persist, and charge the scan against the user.
	result, err := s.classifier.Classify(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ttl := time.Duration(s.quotaCfg.CacheTTLHours) * time.Hour
	cacheEntry := &models.TriageCacheEntry{
		ImageHash:        imageHash,
		ObjectIdentified: result.ObjectIdentified,
		HazardType:       result.HazardType,
		ToxicityLevel:    result.ToxicityLevel,
		ImmediateAction:  result.ImmediateAction,
		ExpiresAt:        now.Add(ttl),
		LastAccessedAt:   now,
	}
	if err := s.cache.Save(cacheEntry); err != nil {
		// The verdict is already in hand; losing the cache row only costs a
		// future classifier call.
		log.Printf("WARN: [HazardService] Failed to cache verdict for hash %s: %v", imageHash, err)
	}
	if err := s.scans.Record(userID); err != nil {
		log.Printf("ERROR: [HazardService] Failed to record scan entry for user %s: %v", userID, err)
	}

	return &ScanResult{Cached: false, Result: result}, nil
}
