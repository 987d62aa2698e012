// ABOUTME: SQLite schema definition, initialization and default seed data.
// ABOUTME: Initialize is idempotent and safe to run on every start.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS body_parts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS exercises (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	body_part_id INTEGER REFERENCES body_parts(id) ON DELETE SET NULL,
	equipment TEXT,
	unit TEXT NOT NULL DEFAULT 'kg',
	is_default INTEGER NOT NULL DEFAULT 0,
	is_archived INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS training_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL UNIQUE,
	start_at TEXT,
	end_at TEXT,
	note TEXT NOT NULL DEFAULT '',
	total_sets INTEGER NOT NULL DEFAULT 0,
	total_reps INTEGER NOT NULL DEFAULT 0,
	total_load_kg REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS training_sets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL REFERENCES training_sessions(id) ON DELETE CASCADE,
	exercise_id INTEGER NOT NULL REFERENCES exercises(id),
	set_index INTEGER NOT NULL,
	weight_kg REAL NOT NULL DEFAULT 0,
	reps INTEGER NOT NULL DEFAULT 0,
	rpe REAL,
	rir INTEGER,
	is_warmup INTEGER NOT NULL DEFAULT 0,
	tempo TEXT,
	rest_sec INTEGER
);

CREATE TABLE IF NOT EXISTS training_session_media (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL REFERENCES training_sessions(id) ON DELETE CASCADE,
	uri TEXT NOT NULL,
	thumb_uri TEXT,
	type TEXT NOT NULL CHECK (type IN ('image', 'video')),
	width INTEGER,
	height INTEGER,
	duration_sec REAL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exercises_body_part ON exercises(body_part_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_training_sets_pair_index ON training_sets(session_id, exercise_id, set_index);
CREATE INDEX IF NOT EXISTS idx_training_sets_exercise ON training_sets(exercise_id);
CREATE INDEX IF NOT EXISTS idx_training_session_media_session ON training_session_media(session_id);
`

type seedExercise struct {
	name     string
	bodyPart string
	unit     string
}

// defaultBodyParts is the seeded taxonomy, in display order.
var defaultBodyParts = []string{
	"胸", "背中", "肩", "腕", "脚", "腹筋", "お尻", "全身",
}

var defaultExercises = []seedExercise{
	{"ベンチプレス", "胸", "kg"},
	{"インクラインベンチプレス", "胸", "kg"},
	{"ダンベルフライ", "胸", "kg"},
	{"デッドリフト", "背中", "kg"},
	{"ラットプルダウン", "背中", "kg"},
	{"ベントオーバーロウ", "背中", "kg"},
	{"懸垂", "背中", "kg"},
	{"ショルダープレス", "肩", "kg"},
	{"サイドレイズ", "肩", "kg"},
	{"バーベルカール", "腕", "kg"},
	{"トライセプスプレスダウン", "腕", "kg"},
	{"スクワット", "脚", "kg"},
	{"レッグプレス", "脚", "kg"},
	{"レッグカール", "脚", "kg"},
	{"クランチ", "腹筋", "kg"},
	{"プランク", "腹筋", "sec"},
	{"ヒップスラスト", "お尻", "kg"},
	{"ブルガリアンスクワット", "お尻", "kg"},
	{"バーピー", "全身", "kg"},
}

// Initialize creates all tables if absent and seeds the default body parts
// and exercises when the body_parts table is empty.
func (d *DB) Initialize(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM body_parts").Scan(&count); err != nil {
			return fmt.Errorf("count body parts: %w", err)
		}
		if count > 0 {
			return nil
		}
		if err := seed(ctx, tx); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"body_parts": len(defaultBodyParts),
			"exercises":  len(defaultExercises),
		}).Info("seeded default training taxonomy")
		return nil
	})
}

func seed(ctx context.Context, tx *sql.Tx) error {
	for i, name := range defaultBodyParts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO body_parts (name, sort_order) VALUES (?, ?)", name, i+1); err != nil {
			return fmt.Errorf("insert body part %s: %w", name, err)
		}
	}

	for _, ex := range defaultExercises {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exercises (name, body_part_id, unit, is_default, is_archived)
			VALUES (?, (SELECT id FROM body_parts WHERE name = ?), ?, 1, 0)`,
			ex.name, ex.bodyPart, ex.unit)
		if err != nil {
			return fmt.Errorf("insert exercise %s: %w", ex.name, err)
		}
	}
	return nil
}
