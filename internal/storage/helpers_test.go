// ABOUTME: Shared helpers for storage tests.
// ABOUTME: Each test gets a fresh SQLite database in a temp directory.
package storage

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "trainlog.db")
	db, err := Open(dbPath)
	require.NoError(t, err, "open database")
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// exerciseID returns the id of a seeded exercise by name.
func exerciseID(t *testing.T, db *DB, name string) int64 {
	t.Helper()

	ex, found, err := db.FindExerciseByName(context.Background(), name)
	require.NoError(t, err)
	require.True(t, found, "exercise %q not seeded", name)
	return ex.ID
}

// bodyPartID returns the id of a seeded body part by name.
func bodyPartID(t *testing.T, db *DB, name string) int64 {
	t.Helper()

	bp, found, err := db.FindBodyPartByName(context.Background(), name)
	require.NoError(t, err)
	require.True(t, found, "body part %q not seeded", name)
	return bp.ID
}

// pairIndices returns the sorted set indices of a (session, exercise) pair.
func pairIndices(t *testing.T, db *DB, sessionID, exerciseID int64) []int {
	t.Helper()

	rows, err := db.ListSetsBySession(context.Background(), sessionID)
	require.NoError(t, err)

	indices := []int{}
	for _, r := range rows {
		if r.ExerciseID == exerciseID {
			indices = append(indices, r.SetIndex)
		}
	}
	sort.Ints(indices)
	return indices
}

// contiguous returns 1..n.
func contiguous(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
