// ABOUTME: Body part CRUD operations for SQLite storage.
// ABOUTME: Deleting a body part leaves its exercises uncategorized.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/trainlog/internal/models"
)

// ListBodyParts returns all body parts in display order.
func (d *DB) ListBodyParts(ctx context.Context) ([]*models.BodyPart, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, sort_order
		FROM body_parts
		ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list body parts: %w", err)
	}
	defer rows.Close()

	var parts []*models.BodyPart
	for rows.Next() {
		var bp models.BodyPart
		if err := rows.Scan(&bp.ID, &bp.Name, &bp.SortOrder); err != nil {
			return nil, fmt.Errorf("scan body part: %w", err)
		}
		parts = append(parts, &bp)
	}
	return parts, rows.Err()
}

// FindBodyPartByName looks up a body part by its exact name.
func (d *DB) FindBodyPartByName(ctx context.Context, name string) (*models.BodyPart, bool, error) {
	return findBodyPart(ctx, d.db, name)
}

func findBodyPart(ctx context.Context, q querier, name string) (*models.BodyPart, bool, error) {
	var bp models.BodyPart
	err := q.QueryRowContext(ctx,
		"SELECT id, name, sort_order FROM body_parts WHERE name = ?", name).
		Scan(&bp.ID, &bp.Name, &bp.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find body part: %w", err)
	}
	return &bp, true, nil
}

// InsertBodyPart adds a body part at the end of the display order.
func (d *DB) InsertBodyPart(ctx context.Context, name string) (int64, error) {
	return insertBodyPart(ctx, d.db, name)
}

func insertBodyPart(ctx context.Context, q querier, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("insert body part: %w: empty name", ErrInvalidInput)
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO body_parts (name, sort_order)
		VALUES (?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM body_parts))
	`, name)
	if err != nil {
		return 0, fmt.Errorf("insert body part: %w", err)
	}
	return result.LastInsertId()
}

// DeleteBodyPart removes a body part. Exercises that referenced it keep
// existing with no body part.
func (d *DB) DeleteBodyPart(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM body_parts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete body part: %w", err)
	}
	return requireAffected(result, "body part", id)
}
