package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPointSetWindowAndCounts(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	owner := seedUser(t, db, "op", "operator")
	cam := seedCamera(t, db, owner, "entrance")
	other := seedCamera(t, db, owner, "yard")

	now := time.Now().UTC()
	seedDetection(t, db, cam, "person", 0.5, 0.5, 0.9, now.Add(-time.Hour))
	seedDetection(t, db, cam, "person", 0.6, 0.4, 0.8, now.Add(-2*time.Hour))
	seedDetection(t, db, cam, "car", 0.1, 0.1, 0.7, now.Add(-24*time.Hour))
	// Outside the seven-day window.
	seedDetection(t, db, cam, "person", 0.2, 0.2, 0.9, now.AddDate(0, 0, -10))
	// Different camera.
	seedDetection(t, db, other, "dog", 0.3, 0.3, 0.5, now.Add(-time.Hour))

	repo := NewDetectionRepository(db)
	set, err := repo.GetPointSet(context.Background(), cam, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, cam, set.CameraID)
	assert.Equal(t, 3, set.TotalDetections)
	assert.Equal(t, map[string]int{"person": 2, "car": 1}, set.ClassCounts)

	// A wider window picks the old detection back up.
	set, err = repo.GetPointSet(context.Background(), cam, 30, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, set.TotalDetections)
}

func TestGetPointSetClassFilter(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	owner := seedUser(t, db, "op", "operator")
	cam := seedCamera(t, db, owner, "entrance")

	now := time.Now().UTC()
	seedDetection(t, db, cam, "person", 0.5, 0.5, 0.9, now)
	seedDetection(t, db, cam, "car", 0.1, 0.1, 0.7, now)
	seedDetection(t, db, cam, "dog", 0.3, 0.3, 0.5, now)

	repo := NewDetectionRepository(db)
	set, err := repo.GetPointSet(context.Background(), cam, 7, []string{"person", "dog"})
	require.NoError(t, err)

	assert.Equal(t, 2, set.TotalDetections)
	assert.NotContains(t, set.ClassCounts, "car")
}

func TestGetPointSetEmptyWindow(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	owner := seedUser(t, db, "op", "operator")
	cam := seedCamera(t, db, owner, "entrance")

	repo := NewDetectionRepository(db)
	set, err := repo.GetPointSet(context.Background(), cam, 7, nil)
	require.NoError(t, err)

	// No detections is a valid result, not an error.
	assert.Zero(t, set.TotalDetections)
	assert.Empty(t, set.Points)
	assert.NotNil(t, set.ClassCounts)
}

func TestGetPointSetDefaultsWindow(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	owner := seedUser(t, db, "op", "operator")
	cam := seedCamera(t, db, owner, "entrance")

	now := time.Now().UTC()
	seedDetection(t, db, cam, "person", 0.5, 0.5, 0.9, now.Add(-time.Hour))
	seedDetection(t, db, cam, "person", 0.2, 0.2, 0.9, now.AddDate(0, 0, -10))

	repo := NewDetectionRepository(db)
	set, err := repo.GetPointSet(context.Background(), cam, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, set.TotalDetections, "non-positive window falls back to seven days")
}

func TestClassNames(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	owner := seedUser(t, db, "op", "operator")
	cam := seedCamera(t, db, owner, "entrance")

	now := time.Now().UTC()
	seedDetection(t, db, cam, "person", 0.5, 0.5, 0.9, now)
	seedDetection(t, db, cam, "person", 0.6, 0.4, 0.8, now)
	seedDetection(t, db, cam, "car", 0.1, 0.1, 0.7, now)

	repo := NewDetectionRepository(db)
	classes, err := repo.ClassNames(context.Background(), cam)
	require.NoError(t, err)
	assert.Equal(t, []string{"car", "person"}, classes)

	classes, err = repo.ClassNames(context.Background(), cam+999)
	require.NoError(t, err)
	assert.Empty(t, classes)
}
