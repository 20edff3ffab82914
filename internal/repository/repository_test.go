package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/chowkidaar/nvr-backend-go/internal/database"
	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// openTestDB opens a fresh in-memory database with the full schema
// applied. One connection only: each in-memory connection would
// otherwise get its own empty database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, "../../migrations").RunMigrations())
	return db
}

func seedUser(t *testing.T, db *sql.DB, username, role string) int64 {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES (?, ?, 'x', ?, 1)`,
		username, username+"@example.com", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedCamera(t *testing.T, db *sql.DB, ownerID int64, name string) int64 {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO cameras (name, stream_url, camera_type, status, owner_id)
		VALUES (?, 'rtsp://test/stream', ?, ?, ?)`,
		name, models.CameraTypeRTSP, models.CameraStatusOnline, ownerID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedDetection(t *testing.T, db *sql.DB, cameraID int64, class string, x, y, weight float64, at time.Time) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO detections (camera_id, class_name, x, y, weight, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cameraID, class, x, y, weight, at)
	require.NoError(t, err)
}
