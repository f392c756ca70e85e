package repository

import (
	"testing"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// seedScan inserts a scan entry with an explicit timestamp, bypassing Record,
// to simulate the passage of time.
func seedScan(t *testing.T, repo ScanRepository, userID string, at time.Time) {
	t.Helper()
	r := repo.(*scanRepository)
	entry := models.ScanEntry{ID: uuid.NewString(), UserID: userID, CreatedAt: at}
	assert.NoError(t, r.db.Create(&entry).Error)
}

func TestScanRepository(t *testing.T) {
	t.Run("Three entries in the window block further scans until they age out", func(t *testing.T) {
		repo := NewScanRepository(newTestDB(t))
		now := time.Now().UTC()

		seedScan(t, repo, "user1", now.Add(-1*time.Hour))
		seedScan(t, repo, "user1", now.Add(-2*time.Hour))
		seedScan(t, repo, "user1", now.Add(-23*time.Hour))

		count, err := repo.CountSince("user1", now.Add(-24*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		// The 23h-old entry falls out of a window anchored one hour later.
		count, err = repo.CountSince("user1", now.Add(-24*time.Hour).Add(90*time.Minute))
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Counts are per user", func(t *testing.T) {
		repo := NewScanRepository(newTestDB(t))
		assert.NoError(t, repo.Record("user1"))
		assert.NoError(t, repo.Record("user2"))

		count, err := repo.CountSince("user1", time.Now().UTC().Add(-24*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("PruneBefore removes only aged entries", func(t *testing.T) {
		repo := NewScanRepository(newTestDB(t))
		now := time.Now().UTC()

		seedScan(t, repo, "user1", now.Add(-30*time.Hour))
		seedScan(t, repo, "user1", now.Add(-25*time.Hour))
		seedScan(t, repo, "user1", now.Add(-1*time.Hour))

		pruned, err := repo.PruneBefore(now.Add(-24 * time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(2), pruned)

		count, err := repo.CountSince("user1", now.Add(-48*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count, "the live entry must survive the sweep")
	})

	t.Run("Empty user ID is rejected", func(t *testing.T) {
		repo := NewScanRepository(newTestDB(t))

		_, err := repo.CountSince("", time.Now().UTC())
		assert.Error(t, err)
		assert.Error(t, repo.Record(""))
	})
}
