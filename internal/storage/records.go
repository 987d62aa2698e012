// ABOUTME: Personal record queries over the set ledger.
// ABOUTME: Only work sets on active exercises qualify.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/trainlog/internal/models"
)

const recordQuery = `
	SELECT t.id, t.exercise_id, e.name, s.date, t.weight_kg, t.reps
	FROM training_sets t
	JOIN exercises e ON e.id = t.exercise_id
	JOIN training_sessions s ON s.id = t.session_id
	WHERE t.is_warmup = 0
	  AND e.is_archived = 0
	  AND NOT (t.weight_kg = 0 AND t.reps = 0)
	ORDER BY %s
	LIMIT 1
`

// MaxWeightRecord returns the heaviest work set, ties going to more reps
// and then to the earliest set. It returns nil when no set qualifies.
func (d *DB) MaxWeightRecord(ctx context.Context) (*models.Record, error) {
	return d.record(ctx, "t.weight_kg DESC, t.reps DESC, s.date ASC, t.id ASC")
}

// MaxRepsRecord returns the work set with the most reps, ties going to
// more weight and then to the earliest set. It returns nil when no set
// qualifies.
func (d *DB) MaxRepsRecord(ctx context.Context) (*models.Record, error) {
	return d.record(ctx, "t.reps DESC, t.weight_kg DESC, s.date ASC, t.id ASC")
}

func (d *DB) record(ctx context.Context, orderBy string) (*models.Record, error) {
	var r models.Record
	err := d.db.QueryRowContext(ctx, fmt.Sprintf(recordQuery, orderBy)).
		Scan(&r.SetID, &r.ExerciseID, &r.ExerciseName, &r.Date, &r.WeightKg, &r.Reps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return &r, nil
}
