// ABOUTME: Tests for the set ledger.
// ABOUTME: Verifies contiguous indexing, delete/undo round-trips, pruning and cached totals.
package storage

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSetAppendsIndices(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	squat := exerciseID(t, db, "スクワット")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := db.AddSet(ctx, sessionID, bench, 60, 10)
		require.NoError(t, err)
	}
	_, err = db.AddSet(ctx, sessionID, squat, 100, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, pairIndices(t, db, sessionID, bench))
	assert.Equal(t, []int{1}, pairIndices(t, db, sessionID, squat))

	set, err := db.GetSet(ctx, mustLastSet(t, db, sessionID, bench))
	require.NoError(t, err)
	assert.False(t, set.IsWarmup)
}

func TestAddSetRejectsNegativeValues(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	_, err = db.AddSet(ctx, sessionID, bench, -1, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = db.AddSet(ctx, sessionID, bench, 50, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppendSetWarmupStaysOutOfTotals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	warm, err := db.AppendSet(ctx, sessionID, bench, 40, 10, true)
	require.NoError(t, err)
	_, err = db.AppendSet(ctx, sessionID, bench, 80, 5, false)
	require.NoError(t, err)

	set, err := db.GetSet(ctx, warm)
	require.NoError(t, err)
	assert.True(t, set.IsWarmup)
	assert.Equal(t, 1, set.SetIndex)
	assert.Equal(t, []int{1, 2}, pairIndices(t, db, sessionID, bench))

	sess, err := db.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.TotalSets)
	assert.Equal(t, 5, sess.TotalReps)
	assert.InDelta(t, 400.0, sess.TotalLoadKg, 0.001)

	_, err = db.AppendSet(ctx, sessionID, bench, -1, 5, true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSetKeepsIndexAndWarmup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	_, err = db.AddSet(ctx, sessionID, bench, 40, 10)
	require.NoError(t, err)
	id, err := db.AddSet(ctx, sessionID, bench, 0, 0)
	require.NoError(t, err)
	require.NoError(t, db.UpdateSetWarmup(ctx, id, true))

	require.NoError(t, db.UpdateSet(ctx, id, 60, 8))

	set, err := db.GetSet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, set.SetIndex)
	assert.Equal(t, 60.0, set.WeightKg)
	assert.Equal(t, 8, set.Reps)
	assert.True(t, set.IsWarmup)

	assert.ErrorIs(t, db.UpdateSet(ctx, 9999, 1, 1), ErrNotFound)
	assert.ErrorIs(t, db.UpdateSetWarmup(ctx, 9999, true), ErrNotFound)
}

func TestDeleteSetClosesGap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	var ids []int64
	for i := 1; i <= 4; i++ {
		id, err := db.AddSet(ctx, sessionID, bench, float64(50+i*10), 10-i)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	deleted, err := db.DeleteSet(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2, deleted.SetIndex)
	assert.Equal(t, 70.0, deleted.WeightKg)
	assert.Equal(t, 8, deleted.Reps)

	assert.Equal(t, []int{1, 2, 3}, pairIndices(t, db, sessionID, bench))

	old3, err := db.GetSet(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, old3.SetIndex)
	old4, err := db.GetSet(ctx, ids[3])
	require.NoError(t, err)
	assert.Equal(t, 3, old4.SetIndex)

	_, err = db.GetSet(ctx, ids[1])
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.DeleteSet(ctx, ids[1])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenInsertAtIndexRoundTrips(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	var ids []int64
	for i := 1; i <= 4; i++ {
		id, err := db.AddSet(ctx, sessionID, bench, float64(50+i*10), 10-i)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, db.UpdateSetWarmup(ctx, ids[1], true))

	deleted, err := db.DeleteSet(ctx, ids[1])
	require.NoError(t, err)

	restored, err := db.InsertSetAtIndex(ctx, deleted.SessionID, deleted.ExerciseID,
		deleted.SetIndex, deleted.WeightKg, deleted.Reps, deleted.IsWarmup)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, pairIndices(t, db, sessionID, bench))

	set, err := db.GetSet(ctx, restored)
	require.NoError(t, err)
	assert.Equal(t, 2, set.SetIndex)
	assert.Equal(t, 70.0, set.WeightKg)
	assert.Equal(t, 8, set.Reps)
	assert.True(t, set.IsWarmup)

	for want, id := range map[int]int64{1: ids[0], 3: ids[2], 4: ids[3]} {
		s, err := db.GetSet(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, s.SetIndex, "set %d", id)
	}
}

func TestInsertSetAtIndexBounds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	_, err = db.InsertSetAtIndex(ctx, sessionID, bench, 2, 60, 5, false)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = db.InsertSetAtIndex(ctx, sessionID, bench, 0, 60, 5, false)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = db.InsertSetAtIndex(ctx, sessionID, bench, 1, 60, 5, false)
	require.NoError(t, err)
	_, err = db.InsertSetAtIndex(ctx, sessionID, bench, 2, 60, 5, false)
	require.NoError(t, err)
	_, err = db.InsertSetAtIndex(ctx, sessionID, bench, 1, 40, 5, true)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, pairIndices(t, db, sessionID, bench))
}

func TestContiguityUnderRandomMutations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	squat := exerciseID(t, db, "スクワット")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	live := map[int64][]int64{bench: nil, squat: nil}

	for step := 0; step < 120; step++ {
		ex := bench
		if rng.Intn(2) == 1 {
			ex = squat
		}
		n := len(pairIndices(t, db, sessionID, ex))

		switch op := rng.Intn(3); {
		case op == 0 || n == 0:
			id, err := db.AddSet(ctx, sessionID, ex, float64(rng.Intn(100)), rng.Intn(12))
			require.NoError(t, err)
			live[ex] = append(live[ex], id)
		case op == 1:
			i := rng.Intn(len(live[ex]))
			_, err := db.DeleteSet(ctx, live[ex][i])
			require.NoError(t, err)
			live[ex] = append(live[ex][:i], live[ex][i+1:]...)
		default:
			id, err := db.InsertSetAtIndex(ctx, sessionID, ex, 1+rng.Intn(n+1), 20, 5, false)
			require.NoError(t, err)
			live[ex] = append(live[ex], id)
		}

		for _, e := range []int64{bench, squat} {
			got := pairIndices(t, db, sessionID, e)
			require.Equal(t, contiguous(len(live[e])), got, "step %d exercise %d", step, e)
		}
	}
}

func TestPruneZeroSetsRenumbers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	day1, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)
	day2, err := db.GetOrCreateSession(ctx, "2024-06-02")
	require.NoError(t, err)

	keep1, err := db.AddSet(ctx, day1, bench, 60, 10)
	require.NoError(t, err)
	_, err = db.AddSet(ctx, day1, bench, 0, 0)
	require.NoError(t, err)
	keep3, err := db.AddSet(ctx, day1, bench, 70, 8)
	require.NoError(t, err)
	_, err = db.AddSet(ctx, day2, bench, 0, 0)
	require.NoError(t, err)

	// Scoped prune leaves the other session alone.
	n, err := db.PruneZeroSets(ctx, &day1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []int{1, 2}, pairIndices(t, db, day1, bench))
	assert.Equal(t, []int{1}, pairIndices(t, db, day2, bench))

	moved, err := db.GetSet(ctx, keep3)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.SetIndex)
	first, err := db.GetSet(ctx, keep1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SetIndex)

	n, err = db.PruneZeroSets(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, pairIndices(t, db, day2, bench))

	n, err = db.PruneZeroSets(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRenumberSetsRepairsGaps(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := db.AddSet(ctx, sessionID, bench, 60, 10)
		require.NoError(t, err)
	}
	// Punch a hole behind the ledger's back.
	_, err = db.db.ExecContext(ctx,
		"DELETE FROM training_sets WHERE session_id = ? AND exercise_id = ? AND set_index = 2",
		sessionID, bench)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, pairIndices(t, db, sessionID, bench))

	require.NoError(t, db.RenumberSets(ctx, sessionID, bench))
	assert.Equal(t, []int{1, 2}, pairIndices(t, db, sessionID, bench))
}

func TestCachedTotalsFollowMutations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	warm, err := db.AddSet(ctx, sessionID, bench, 40, 10)
	require.NoError(t, err)
	require.NoError(t, db.UpdateSetWarmup(ctx, warm, true))
	a, err := db.AddSet(ctx, sessionID, bench, 80, 10)
	require.NoError(t, err)
	_, err = db.AddSet(ctx, sessionID, bench, 80, 8)
	require.NoError(t, err)

	s, err := db.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalSets)
	assert.Equal(t, 18, s.TotalReps)
	assert.InDelta(t, 1440.0, s.TotalLoadKg, 0.001)

	require.NoError(t, db.UpdateSet(ctx, a, 100, 5))
	s, err = db.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.InDelta(t, 1140.0, s.TotalLoadKg, 0.001)

	_, err = db.DeleteSet(ctx, a)
	require.NoError(t, err)
	s, err = db.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalSets)
	assert.Equal(t, 8, s.TotalReps)
	assert.InDelta(t, 640.0, s.TotalLoadKg, 0.001)
}

func TestEndToEndBenchPressScenario(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	first, err := db.AddSet(ctx, sessionID, bench, 80, 10)
	require.NoError(t, err)
	set, err := db.GetSet(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, set.SetIndex)

	second, err := db.AddSet(ctx, sessionID, bench, 80, 8)
	require.NoError(t, err)
	set, err = db.GetSet(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, set.SetIndex)

	_, err = db.DeleteSet(ctx, first)
	require.NoError(t, err)

	rows, err := db.ListSetsBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ベンチプレス", rows[0].ExerciseName)
	assert.Equal(t, "kg", rows[0].Unit)
	assert.Equal(t, 1, rows[0].SetIndex)
	assert.Equal(t, 80.0, rows[0].WeightKg)
	assert.Equal(t, 8, rows[0].Reps)
}

func TestListSetsBySessionOrdering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	squat := exerciseID(t, db, "スクワット")
	bench := exerciseID(t, db, "ベンチプレス")
	sessionID, err := db.GetOrCreateSession(ctx, "2024-06-01")
	require.NoError(t, err)

	for _, ex := range []int64{squat, bench, squat, bench} {
		_, err := db.AddSet(ctx, sessionID, ex, 50, 5)
		require.NoError(t, err)
	}

	rows, err := db.ListSetsBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.ExerciseName == cur.ExerciseName {
			assert.Less(t, prev.SetIndex, cur.SetIndex)
		} else {
			assert.Less(t, prev.ExerciseName, cur.ExerciseName)
		}
	}
}

func mustLastSet(t *testing.T, db *DB, sessionID, exerciseID int64) int64 {
	t.Helper()

	rows, err := db.ListSetsBySession(context.Background(), sessionID)
	require.NoError(t, err)
	var id int64
	for _, r := range rows {
		if r.ExerciseID == exerciseID {
			id = r.ID
		}
	}
	require.NotZero(t, id)
	return id
}
