// ABOUTME: Session registry: one training session per calendar date.
// ABOUTME: Sessions are created lazily and looked up by YYYY-MM-DD.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harperreed/trainlog/internal/models"
)

const sessionColumns = `id, date, start_at, end_at, note, total_sets, total_reps,
	total_load_kg, created_at, updated_at`

// GetOrCreateSession returns the id of the session for date, creating the
// session on first access.
func (d *DB) GetOrCreateSession(ctx context.Context, date string) (int64, error) {
	if _, err := models.ParseDate(date); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = getOrCreateSession(ctx, tx, date)
		return err
	})
	return id, err
}

func getOrCreateSession(ctx context.Context, q querier, date string) (int64, error) {
	now := nowString()
	if _, err := q.ExecContext(ctx, `
		INSERT INTO training_sessions (date, note, created_at, updated_at)
		VALUES (?, '', ?, ?)
		ON CONFLICT(date) DO NOTHING
	`, date, now, now); err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	var id int64
	if err := q.QueryRowContext(ctx,
		"SELECT id FROM training_sessions WHERE date = ?", date).Scan(&id); err != nil {
		return 0, fmt.Errorf("select session: %w", err)
	}
	return id, nil
}

// FindSessionID looks up the session for date without creating it.
func (d *DB) FindSessionID(ctx context.Context, date string) (int64, bool, error) {
	var id int64
	err := d.db.QueryRowContext(ctx, "SELECT id FROM training_sessions WHERE date = ?", date).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find session: %w", err)
	}
	return id, true, nil
}

// GetSession retrieves a session with its cached totals.
func (d *DB) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM training_sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return s, err
}

// ListSessions returns sessions in date order, newest first. A limit of
// zero or less returns all of them.
func (d *DB) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM training_sessions ORDER BY date DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListSessionDatesInMonth returns the session dates in a YYYY-MM month.
func (d *DB) ListSessionDatesInMonth(ctx context.Context, yearMonth string) ([]string, error) {
	if _, err := models.ParseYearMonth(yearMonth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d.queryDates(ctx, `
		SELECT date FROM training_sessions
		WHERE substr(date, 1, 7) = ?
		ORDER BY date ASC
	`, yearMonth)
}

// ListSessionDatesInMonthByBodyPart returns the dates in a month whose
// session holds at least one set of an active exercise of the body part.
func (d *DB) ListSessionDatesInMonthByBodyPart(ctx context.Context, yearMonth string, bodyPartID int64) ([]string, error) {
	if _, err := models.ParseYearMonth(yearMonth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d.queryDates(ctx, `
		SELECT DISTINCT s.date
		FROM training_sessions s
		JOIN training_sets t ON t.session_id = s.id
		JOIN exercises e ON e.id = t.exercise_id
		WHERE substr(s.date, 1, 7) = ?
		  AND e.body_part_id = ?
		  AND e.is_archived = 0
		ORDER BY s.date ASC
	`, yearMonth, bodyPartID)
}

// ListAllSessionDates returns every session date in ascending order.
func (d *DB) ListAllSessionDates(ctx context.Context) ([]string, error) {
	return d.queryDates(ctx, "SELECT date FROM training_sessions ORDER BY date ASC")
}

func (d *DB) queryDates(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list session dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan session date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// GetSessionNote returns the free-text note of a session.
func (d *DB) GetSessionNote(ctx context.Context, id int64) (string, error) {
	var note string
	err := d.db.QueryRowContext(ctx, "SELECT note FROM training_sessions WHERE id = ?", id).Scan(&note)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get session note: %w", err)
	}
	return note, nil
}

// UpdateSessionNote replaces the note and touches updated_at.
// Callers that save on every keystroke are expected to debounce.
func (d *DB) UpdateSessionNote(ctx context.Context, id int64, note string) error {
	return updateSessionNote(ctx, d.db, id, note)
}

func updateSessionNote(ctx context.Context, q querier, id int64, note string) error {
	result, err := q.ExecContext(ctx,
		"UPDATE training_sessions SET note = ?, updated_at = ? WHERE id = ?",
		note, nowString(), id)
	if err != nil {
		return fmt.Errorf("update session note: %w", err)
	}
	return requireAffected(result, "session", id)
}

// UpdateSessionTimes sets the start and end timestamps of a session.
// A nil value clears the corresponding column.
func (d *DB) UpdateSessionTimes(ctx context.Context, id int64, startAt, endAt *time.Time) error {
	return updateSessionTimes(ctx, d.db, id, startAt, endAt)
}

func updateSessionTimes(ctx context.Context, q querier, id int64, startAt, endAt *time.Time) error {
	result, err := q.ExecContext(ctx,
		"UPDATE training_sessions SET start_at = ?, end_at = ?, updated_at = ? WHERE id = ?",
		formatOptionalTime(startAt), formatOptionalTime(endAt), nowString(), id)
	if err != nil {
		return fmt.Errorf("update session times: %w", err)
	}
	return requireAffected(result, "session", id)
}

// PruneEmptySessions deletes sessions that have no sets, no media and an
// empty note. Sessions listed in keep survive even when empty.
func (d *DB) PruneEmptySessions(ctx context.Context, keep ...int64) (int64, error) {
	query := `
		DELETE FROM training_sessions
		WHERE trim(note) = ''
		  AND NOT EXISTS (SELECT 1 FROM training_sets t WHERE t.session_id = training_sessions.id)
		  AND NOT EXISTS (SELECT 1 FROM training_session_media m WHERE m.session_id = training_sessions.id)`
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += " AND id NOT IN (?" + strings.Repeat(", ?", len(keep)-1) + ")"
		for _, id := range keep {
			args = append(args, id)
		}
	}

	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune empty sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune empty sessions: %w", err)
	}
	if n > 0 {
		logrus.WithField("sessions", n).Debug("pruned empty sessions")
	}
	return n, nil
}

func scanSession(row scanner) (*models.Session, error) {
	var s models.Session
	var startAt, endAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.Date, &startAt, &endAt, &s.Note, &s.TotalSets, &s.TotalReps,
		&s.TotalLoadKg, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if startAt.Valid {
		t := parseTimestamp(startAt.String)
		s.StartAt = &t
	}
	if endAt.Valid {
		t := parseTimestamp(endAt.String)
		s.EndAt = &t
	}
	s.CreatedAt = parseTimestamp(createdAt)
	s.UpdatedAt = parseTimestamp(updatedAt)
	return &s, nil
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func requireAffected(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
