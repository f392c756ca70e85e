package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func newHazardServiceForTest() (HazardService, *MockScanRepository, *MockTriageRepository, *MockClassifier) {
	scans := new(MockScanRepository)
	cache := new(MockTriageRepository)
	classifier := new(MockClassifier)
	svc := NewHazardService(scans, cache, classifier, testQuotaConfig())
	return svc, scans, cache, classifier
}

func TestHazardService_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("Three scans in the window deny the fourth", func(t *testing.T) {
		svc, scans, cache, classifier := newHazardServiceForTest()
		scans.On("CountSince", "user1", mock.Anything).Return(int64(3), nil).Once()

		result, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", testHash)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrRateLimited)
		cache.AssertNotCalled(t, "Lookup", mock.Anything)
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	})

	t.Run("Cache hit serves the stored verdict and records no scan", func(t *testing.T) {
		svc, scans, cache, classifier := newHazardServiceForTest()
		scans.On("CountSince", "user1", mock.Anything).Return(int64(1), nil).Once()
		cache.On("Lookup", testHash).Return(&models.TriageCacheEntry{
			ImageHash:        testHash,
			ObjectIdentified: "lily",
			HazardType:       "toxic plant",
			ToxicityLevel:    "severe",
			ImmediateAction:  "Contact a vet immediately.",
			HitCount:         4,
		}, nil).Once()

		result, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", testHash)

		assert.NoError(t, err)
		assert.True(t, result.Cached)
		assert.Equal(t, "lily", result.Result.ObjectIdentified)
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
		scans.AssertNotCalled(t, "Record", mock.Anything)
	})

	t.Run("Cache miss classifies, caches once, and charges one scan", func(t *testing.T) {
		svc, scans, cache, classifier := newHazardServiceForTest()
		scans.On("CountSince", "user1", mock.Anything).Return(int64(0), nil).Once()
		cache.On("Lookup", testHash).Return(nil, repository.ErrCacheMiss).Once()
		classifier.On("Classify", ctx, "https://img.example/x.jpg").Return(models.TriageResult{
			ObjectIdentified: "grape",
			HazardType:       "toxic food",
			ToxicityLevel:    "high",
			ImmediateAction:  "Call your vet.",
		}, nil).Once()
		cache.On("Save", mock.MatchedBy(func(e *models.TriageCacheEntry) bool {
			return e.ImageHash == testHash &&
				e.ObjectIdentified == "grape" &&
				e.ExpiresAt.After(time.Now().UTC())
		})).Return(nil).Once()
		scans.On("Record", "user1").Return(nil).Once()

		result, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", testHash)

		assert.NoError(t, err)
		assert.False(t, result.Cached)
		assert.Equal(t, "grape", result.Result.ObjectIdentified)
		cache.AssertExpectations(t)
		scans.AssertExpectations(t)
		classifier.AssertExpectations(t)
	})

	t.Run("Identical hash twice returns the same verdict and only charges the miss", func(t *testing.T) {
		svc, scans, cache, classifier := newHazardServiceForTest()
		verdict := models.TriageResult{
			ObjectIdentified: "chocolate bar",
			HazardType:       "toxic food",
			ToxicityLevel:    "high",
			ImmediateAction:  "Call your vet.",
		}
		scans.On("CountSince", "user1", mock.Anything).Return(int64(0), nil).Twice()
		cache.On("Lookup", testHash).Return(nil, repository.ErrCacheMiss).Once()
		classifier.On("Classify", ctx, mock.Anything).Return(verdict, nil).Once()
		cache.On("Save", mock.Anything).Return(nil).Once()
		scans.On("Record", "user1").Return(nil).Once()

		first, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", testHash)
		assert.NoError(t, err)

		cache.On("Lookup", testHash).Return(&models.TriageCacheEntry{
			ImageHash:        testHash,
			ObjectIdentified: verdict.ObjectIdentified,
			HazardType:       verdict.HazardType,
			ToxicityLevel:    verdict.ToxicityLevel,
			ImmediateAction:  verdict.ImmediateAction,
			HitCount:         1,
		}, nil).Once()

		second, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", testHash)
		assert.NoError(t, err)

		assert.Equal(t, first.Result, second.Result)
		assert.False(t, first.Cached)
		assert.True(t, second.Cached)
		classifier.AssertNumberOfCalls(t, "Classify", 1)
		scans.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("Malformed hashes are rejected before any work", func(t *testing.T) {
		svc, scans, _, _ := newHazardServiceForTest()

		_, err := svc.Scan(ctx, "user1", "https://img.example/x.jpg", "not-a-hash")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.Scan(ctx, "user1", "https://img.example/x.jpg", strings.ToUpper(testHash))
		assert.ErrorIs(t, err, ErrValidation)

		scans.AssertNotCalled(t, "CountSince", mock.Anything, mock.Anything)
	})

	t.Run("Missing fields are a validation error", func(t *testing.T) {
		svc, _, _, _ := newHazardServiceForTest()

		_, err := svc.Scan(ctx, "", "https://img.example/x.jpg", testHash)
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.Scan(ctx, "user1", "", testHash)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestScanLogSweeper_Sweep(t *testing.T) {
	scans := new(MockScanRepository)
	scans.On("PruneBefore", mock.MatchedBy(func(cutoff time.Time) bool {
		// The cutoff must trail now by the retention window.
		return time.Now().UTC().Sub(cutoff) >= 24*time.Hour
	})).Return(int64(7), nil).Once()

	sweeper := NewScanLogSweeper(scans, 24*time.Hour, time.Hour)
	sweeper.Sweep()

	scans.AssertExpectations(t)
}
