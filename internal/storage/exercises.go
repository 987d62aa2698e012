// ABOUTME: Exercise CRUD operations for SQLite storage.
// ABOUTME: Exercises referenced by sets are archived instead of deleted.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/trainlog/internal/models"
)

const exerciseColumns = "id, name, body_part_id, equipment, unit, is_default, is_archived"

// ListExercisesByBodyPart returns the active exercises of a body part.
// A nil bodyPartID selects uncategorized exercises.
func (d *DB) ListExercisesByBodyPart(ctx context.Context, bodyPartID *int64) ([]*models.Exercise, error) {
	return d.listExercises(ctx, bodyPartID, false)
}

// ListExercisesForPart is like ListExercisesByBodyPart but includes archived
// exercises, for management screens.
func (d *DB) ListExercisesForPart(ctx context.Context, bodyPartID *int64) ([]*models.Exercise, error) {
	return d.listExercises(ctx, bodyPartID, true)
}

func (d *DB) listExercises(ctx context.Context, bodyPartID *int64, includeArchived bool) ([]*models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises WHERE "
	var args []any

	if bodyPartID != nil {
		query += "body_part_id = ?"
		args = append(args, *bodyPartID)
	} else {
		query += "body_part_id IS NULL"
	}
	if !includeArchived {
		query += " AND is_archived = 0"
	}
	query += " ORDER BY id ASC"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	return scanExercises(rows)
}

// ListAllExercises returns every exercise, optionally including archived ones.
func (d *DB) ListAllExercises(ctx context.Context, includeArchived bool) ([]*models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises"
	if !includeArchived {
		query += " WHERE is_archived = 0"
	}
	query += " ORDER BY id ASC"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	return scanExercises(rows)
}

// GetExercise retrieves an exercise by id, archived or not.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+exerciseColumns+" FROM exercises WHERE id = ?", id)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// FindExerciseByName looks up an exercise by exact name, preferring an
// active one over an archived one.
func (d *DB) FindExerciseByName(ctx context.Context, name string) (*models.Exercise, bool, error) {
	return findExercise(ctx, d.db, name)
}

func findExercise(ctx context.Context, q querier, name string) (*models.Exercise, bool, error) {
	row := q.QueryRowContext(ctx, "SELECT "+exerciseColumns+`
		FROM exercises WHERE name = ?
		ORDER BY is_archived ASC, id ASC LIMIT 1`, name)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ex, true, nil
}

// InsertExercise adds a user exercise measured in the default unit.
func (d *DB) InsertExercise(ctx context.Context, name string, bodyPartID *int64) (int64, error) {
	return insertExercise(ctx, d.db, name, bodyPartID)
}

func insertExercise(ctx context.Context, q querier, name string, bodyPartID *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("insert exercise: %w: empty name", ErrInvalidInput)
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO exercises (name, body_part_id, unit, is_default, is_archived)
		VALUES (?, ?, ?, 0, 0)
	`, name, bodyPartID, models.DefaultUnit)
	if err != nil {
		return 0, fmt.Errorf("insert exercise: %w", err)
	}
	return result.LastInsertId()
}

// DeleteExercise removes an exercise, or archives it when any set still
// references it so that history survives.
func (d *DB) DeleteExercise(ctx context.Context, id int64) (models.DeleteResult, error) {
	var res models.DeleteResult

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM exercises WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("exercise %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lookup exercise: %w", err)
		}

		var refs int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM training_sets WHERE exercise_id = ?", id).Scan(&refs); err != nil {
			return fmt.Errorf("count exercise sets: %w", err)
		}

		if refs > 0 {
			if _, err := tx.ExecContext(ctx,
				"UPDATE exercises SET is_archived = 1 WHERE id = ?", id); err != nil {
				return fmt.Errorf("archive exercise: %w", err)
			}
			res.Kind = models.DeleteKindArchived
			return nil
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		res.Kind = models.DeleteKindDeleted
		return nil
	})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(row scanner) (*models.Exercise, error) {
	var ex models.Exercise
	var bodyPartID sql.NullInt64
	var equipment sql.NullString

	err := row.Scan(&ex.ID, &ex.Name, &bodyPartID, &equipment, &ex.Unit, &ex.IsDefault, &ex.IsArchived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	if bodyPartID.Valid {
		ex.BodyPartID = &bodyPartID.Int64
	}
	if equipment.Valid {
		ex.Equipment = &equipment.String
	}
	return &ex, nil
}

func scanExercises(rows *sql.Rows) ([]*models.Exercise, error) {
	var exercises []*models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}
