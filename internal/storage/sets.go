// ABOUTME: Set ledger: ordered sets per (session, exercise) pair.
// ABOUTME: Every mutation keeps set_index contiguous from 1 and refreshes session totals.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/harperreed/trainlog/internal/models"
)

const setColumns = "id, session_id, exercise_id, set_index, weight_kg, reps, rpe, rir, is_warmup, tempo, rest_sec"

// AddSet appends a work set to the end of its (session, exercise) run.
func (d *DB) AddSet(ctx context.Context, sessionID, exerciseID int64, weightKg float64, reps int) (int64, error) {
	return d.AppendSet(ctx, sessionID, exerciseID, weightKg, reps, false)
}

// AppendSet appends a set with the given warmup flag. The row and the
// session totals are written in one transaction.
func (d *DB) AppendSet(ctx context.Context, sessionID, exerciseID int64, weightKg float64, reps int, warmup bool) (int64, error) {
	if err := validateLoad(weightKg, reps); err != nil {
		return 0, err
	}

	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = appendSet(ctx, tx, sessionID, exerciseID, weightKg, reps, warmup)
		return err
	})
	return id, err
}

func appendSet(ctx context.Context, tx *sql.Tx, sessionID, exerciseID int64, weightKg float64, reps int, warmup bool) (int64, error) {
	var next int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(set_index), 0) + 1
		FROM training_sets
		WHERE session_id = ? AND exercise_id = ?
	`, sessionID, exerciseID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next set index: %w", err)
	}

	id, err := insertSet(ctx, tx, sessionID, exerciseID, next, weightKg, reps, warmup)
	if err != nil {
		return 0, err
	}
	return id, refreshTotals(ctx, tx, sessionID)
}

// GetSet retrieves a set by id.
func (d *DB) GetSet(ctx context.Context, id int64) (*models.Set, error) {
	return getSet(ctx, d.db, id)
}

// UpdateSet changes weight and reps in place. Index and warmup flag are kept.
func (d *DB) UpdateSet(ctx context.Context, id int64, weightKg float64, reps int) error {
	if err := validateLoad(weightKg, reps); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		set, err := getSet(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE training_sets SET weight_kg = ?, reps = ? WHERE id = ?",
			weightKg, reps, id); err != nil {
			return fmt.Errorf("update set: %w", err)
		}
		return refreshTotals(ctx, tx, set.SessionID)
	})
}

// UpdateSetWarmup flips the warmup flag of a set.
func (d *DB) UpdateSetWarmup(ctx context.Context, id int64, warmup bool) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		set, err := getSet(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE training_sets SET is_warmup = ? WHERE id = ?", warmup, id); err != nil {
			return fmt.Errorf("update set warmup: %w", err)
		}
		return refreshTotals(ctx, tx, set.SessionID)
	})
}

// DeleteSet removes a set and closes the gap it leaves in its run. The
// returned row is the set as it was before deletion, index included, so
// the caller can undo with InsertSetAtIndex.
func (d *DB) DeleteSet(ctx context.Context, id int64) (*models.Set, error) {
	var deleted *models.Set
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		set, err := getSet(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM training_sets WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete set: %w", err)
		}
		if err := shiftIndices(ctx, tx, set.SessionID, set.ExerciseID, set.SetIndex+1, -1); err != nil {
			return err
		}
		if err := refreshTotals(ctx, tx, set.SessionID); err != nil {
			return err
		}
		deleted = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// InsertSetAtIndex inserts a set at index, moving the sets at index and
// above up by one. It is the inverse of DeleteSet. The index must lie in
// 1..N+1 where N is the current length of the run.
func (d *DB) InsertSetAtIndex(ctx context.Context, sessionID, exerciseID int64, index int, weightKg float64, reps int, warmup bool) (int64, error) {
	if err := validateLoad(weightKg, reps); err != nil {
		return 0, err
	}

	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM training_sets WHERE session_id = ? AND exercise_id = ?",
			sessionID, exerciseID).Scan(&count); err != nil {
			return fmt.Errorf("count sets: %w", err)
		}
		if index < 1 || index > count+1 {
			return fmt.Errorf("insert at %d with %d sets: %w", index, count, ErrInvalidIndex)
		}

		if err := shiftIndices(ctx, tx, sessionID, exerciseID, index, 1); err != nil {
			return err
		}

		var err error
		id, err = insertSet(ctx, tx, sessionID, exerciseID, index, weightKg, reps, warmup)
		if err != nil {
			return err
		}
		return refreshTotals(ctx, tx, sessionID)
	})
	return id, err
}

// PruneZeroSets deletes sets whose weight and reps are both zero, within
// one session or, when sessionID is nil, everywhere. Every run that lost a
// set is renumbered so it stays contiguous.
func (d *DB) PruneZeroSets(ctx context.Context, sessionID *int64) (int64, error) {
	where := "weight_kg = 0 AND reps = 0"
	var args []any
	if sessionID != nil {
		where += " AND session_id = ?"
		args = append(args, *sessionID)
	}

	var pruned int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		pairs, err := collectPairs(ctx, tx, "SELECT DISTINCT session_id, exercise_id FROM training_sets WHERE "+where, args...)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			return nil
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM training_sets WHERE "+where, args...)
		if err != nil {
			return fmt.Errorf("prune zero sets: %w", err)
		}
		if pruned, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("prune zero sets: %w", err)
		}

		touched := map[int64]bool{}
		for _, p := range pairs {
			if err := renumber(ctx, tx, p.sessionID, p.exerciseID); err != nil {
				return err
			}
			touched[p.sessionID] = true
		}
		for sid := range touched {
			if err := refreshTotals(ctx, tx, sid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		logrus.WithField("sets", pruned).Debug("pruned zero sets")
	}
	return pruned, nil
}

// RenumberSets rewrites the run of a (session, exercise) pair to 1..N,
// keeping the current order.
func (d *DB) RenumberSets(ctx context.Context, sessionID, exerciseID int64) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		return renumber(ctx, tx, sessionID, exerciseID)
	})
}

// ListSetsBySession returns the sets of a session joined to their exercise,
// ordered by exercise name and then set index.
func (d *DB) ListSetsBySession(ctx context.Context, sessionID int64) ([]models.SetRow, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT t.id, t.session_id, t.exercise_id, t.set_index, t.weight_kg, t.reps,
		       t.rpe, t.rir, t.is_warmup, t.tempo, t.rest_sec, e.name, e.unit
		FROM training_sets t
		JOIN exercises e ON e.id = t.exercise_id
		WHERE t.session_id = ?
		ORDER BY e.name ASC, t.exercise_id ASC, t.set_index ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var result []models.SetRow
	for rows.Next() {
		var r models.SetRow
		var rpe sql.NullFloat64
		var rir, restSec sql.NullInt64
		var tempo sql.NullString

		if err := rows.Scan(&r.ID, &r.SessionID, &r.ExerciseID, &r.SetIndex, &r.WeightKg, &r.Reps,
			&rpe, &rir, &r.IsWarmup, &tempo, &restSec, &r.ExerciseName, &r.Unit); err != nil {
			return nil, fmt.Errorf("scan set row: %w", err)
		}
		applyOptional(&r.Set, rpe, rir, tempo, restSec)
		result = append(result, r)
	}
	return result, rows.Err()
}

func validateLoad(weightKg float64, reps int) error {
	if weightKg < 0 || reps < 0 {
		return fmt.Errorf("%w: weight and reps must not be negative", ErrInvalidInput)
	}
	return nil
}

func insertSet(ctx context.Context, q querier, sessionID, exerciseID int64, index int, weightKg float64, reps int, warmup bool) (int64, error) {
	result, err := q.ExecContext(ctx, `
		INSERT INTO training_sets (session_id, exercise_id, set_index, weight_kg, reps, is_warmup)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, exerciseID, index, weightKg, reps, warmup)
	if err != nil {
		return 0, fmt.Errorf("insert set: %w", err)
	}
	return result.LastInsertId()
}

func getSet(ctx context.Context, q querier, id int64) (*models.Set, error) {
	var s models.Set
	var rpe sql.NullFloat64
	var rir, restSec sql.NullInt64
	var tempo sql.NullString

	err := q.QueryRowContext(ctx, "SELECT "+setColumns+" FROM training_sets WHERE id = ?", id).
		Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.SetIndex, &s.WeightKg, &s.Reps,
			&rpe, &rir, &s.IsWarmup, &tempo, &restSec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get set: %w", err)
	}
	applyOptional(&s, rpe, rir, tempo, restSec)
	return &s, nil
}

func applyOptional(s *models.Set, rpe sql.NullFloat64, rir sql.NullInt64, tempo sql.NullString, restSec sql.NullInt64) {
	if rpe.Valid {
		s.RPE = &rpe.Float64
	}
	if rir.Valid {
		v := int(rir.Int64)
		s.RIR = &v
	}
	if tempo.Valid {
		s.Tempo = &tempo.String
	}
	if restSec.Valid {
		v := int(restSec.Int64)
		s.RestSec = &v
	}
}

// shiftIndices adds delta to every set_index >= from in the pair. The
// unique index is checked row by row, so rows are first parked on negative
// indices and then flipped back.
func shiftIndices(ctx context.Context, tx *sql.Tx, sessionID, exerciseID int64, from, delta int) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE training_sets SET set_index = -(set_index + ?)
		WHERE session_id = ? AND exercise_id = ? AND set_index >= ?
	`, delta, sessionID, exerciseID, from); err != nil {
		return fmt.Errorf("shift set indices: %w", err)
	}
	return flipParked(ctx, tx, sessionID, exerciseID)
}

// renumber rewrites the pair's indices to 1..N in current order.
func renumber(ctx context.Context, tx *sql.Tx, sessionID, exerciseID int64) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM training_sets
		WHERE session_id = ? AND exercise_id = ?
		ORDER BY set_index ASC, id ASC
	`, sessionID, exerciseID)
	if err != nil {
		return fmt.Errorf("renumber sets: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("renumber sets: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("renumber sets: %w", err)
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE training_sets SET set_index = ? WHERE id = ?", -(i + 1), id); err != nil {
			return fmt.Errorf("renumber set %d: %w", id, err)
		}
	}
	return flipParked(ctx, tx, sessionID, exerciseID)
}

func flipParked(ctx context.Context, tx *sql.Tx, sessionID, exerciseID int64) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE training_sets SET set_index = -set_index
		WHERE session_id = ? AND exercise_id = ? AND set_index < 0
	`, sessionID, exerciseID); err != nil {
		return fmt.Errorf("restore set indices: %w", err)
	}
	return nil
}

// refreshTotals recomputes the cached work-set totals of a session.
func refreshTotals(ctx context.Context, tx *sql.Tx, sessionID int64) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE training_sessions SET
			total_sets = (SELECT COUNT(*) FROM training_sets
				WHERE session_id = ?1 AND is_warmup = 0),
			total_reps = (SELECT COALESCE(SUM(reps), 0) FROM training_sets
				WHERE session_id = ?1 AND is_warmup = 0),
			total_load_kg = (SELECT COALESCE(SUM(weight_kg * reps), 0) FROM training_sets
				WHERE session_id = ?1 AND is_warmup = 0),
			updated_at = ?2
		WHERE id = ?1
	`, sessionID, nowString()); err != nil {
		return fmt.Errorf("refresh session totals: %w", err)
	}
	return nil
}

type pair struct {
	sessionID  int64
	exerciseID int64
}

func collectPairs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]pair, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collect set pairs: %w", err)
	}
	defer rows.Close()

	var pairs []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.sessionID, &p.exerciseID); err != nil {
			return nil, fmt.Errorf("scan set pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
