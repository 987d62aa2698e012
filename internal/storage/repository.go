// ABOUTME: Repository interface for training log storage.
// ABOUTME: Defines the contract for body parts, exercises, sessions, sets, records and media.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/trainlog/internal/models"
)

// Repository defines the storage interface for the training log.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Body part operations
	ListBodyParts(ctx context.Context) ([]*models.BodyPart, error)
	FindBodyPartByName(ctx context.Context, name string) (*models.BodyPart, bool, error)
	InsertBodyPart(ctx context.Context, name string) (int64, error)
	DeleteBodyPart(ctx context.Context, id int64) error

	// Exercise operations
	ListExercisesByBodyPart(ctx context.Context, bodyPartID *int64) ([]*models.Exercise, error)
	ListExercisesForPart(ctx context.Context, bodyPartID *int64) ([]*models.Exercise, error)
	ListAllExercises(ctx context.Context, includeArchived bool) ([]*models.Exercise, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	FindExerciseByName(ctx context.Context, name string) (*models.Exercise, bool, error)
	InsertExercise(ctx context.Context, name string, bodyPartID *int64) (int64, error)
	DeleteExercise(ctx context.Context, id int64) (models.DeleteResult, error)

	// Session operations
	GetOrCreateSession(ctx context.Context, date string) (int64, error)
	FindSessionID(ctx context.Context, date string) (int64, bool, error)
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*models.Session, error)
	ListSessionDatesInMonth(ctx context.Context, yearMonth string) ([]string, error)
	ListSessionDatesInMonthByBodyPart(ctx context.Context, yearMonth string, bodyPartID int64) ([]string, error)
	ListAllSessionDates(ctx context.Context) ([]string, error)
	GetSessionNote(ctx context.Context, id int64) (string, error)
	UpdateSessionNote(ctx context.Context, id int64, note string) error
	UpdateSessionTimes(ctx context.Context, id int64, startAt, endAt *time.Time) error
	PruneEmptySessions(ctx context.Context, keep ...int64) (int64, error)

	// Set operations
	AddSet(ctx context.Context, sessionID, exerciseID int64, weightKg float64, reps int) (int64, error)
	AppendSet(ctx context.Context, sessionID, exerciseID int64, weightKg float64, reps int, warmup bool) (int64, error)
	GetSet(ctx context.Context, id int64) (*models.Set, error)
	UpdateSet(ctx context.Context, id int64, weightKg float64, reps int) error
	UpdateSetWarmup(ctx context.Context, id int64, warmup bool) error
	DeleteSet(ctx context.Context, id int64) (*models.Set, error)
	InsertSetAtIndex(ctx context.Context, sessionID, exerciseID int64, index int, weightKg float64, reps int, warmup bool) (int64, error)
	PruneZeroSets(ctx context.Context, sessionID *int64) (int64, error)
	RenumberSets(ctx context.Context, sessionID, exerciseID int64) error
	ListSetsBySession(ctx context.Context, sessionID int64) ([]models.SetRow, error)

	// Records
	MaxWeightRecord(ctx context.Context) (*models.Record, error)
	MaxRepsRecord(ctx context.Context) (*models.Record, error)

	// Media operations
	AddSessionMedia(ctx context.Context, m *models.SessionMedia) (int64, error)
	ListSessionMedia(ctx context.Context, sessionID int64) ([]*models.SessionMedia, error)
	GetSessionMediaByID(ctx context.Context, id int64) (*models.SessionMedia, error)
	DeleteSessionMedia(ctx context.Context, id int64) (*models.SessionMedia, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
