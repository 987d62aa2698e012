// ABOUTME: Training log models: body parts, exercises, sessions, sets, media.
// ABOUTME: Plain structs shared by storage, stats, the CLI and the MCP server.
package models

import (
	"time"
)

// DefaultUnit is the unit assigned to exercises unless stated otherwise.
const DefaultUnit = "kg"

// BodyPart is a muscle-group category with a display order.
type BodyPart struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
}

// Exercise is a named movement, optionally linked to a BodyPart.
type Exercise struct {
	ID         int64   `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	BodyPartID *int64  `json:"body_part_id,omitempty" yaml:"body_part_id,omitempty"`
	Equipment  *string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Unit       string  `json:"unit" yaml:"unit"`
	IsDefault  bool    `json:"is_default" yaml:"is_default"`
	IsArchived bool    `json:"is_archived" yaml:"is_archived"`
}

// Session is the single training session of one calendar date.
// The Total* fields are cached work-set aggregates.
type Session struct {
	ID          int64      `json:"id"`
	Date        string     `json:"date"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Note        string     `json:"note"`
	TotalSets   int        `json:"total_sets"`
	TotalReps   int        `json:"total_reps"`
	TotalLoadKg float64    `json:"total_load_kg"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Set is one logged set. SetIndex is 1-based and contiguous within its
// (session, exercise) pair.
type Set struct {
	ID         int64    `json:"id"`
	SessionID  int64    `json:"session_id"`
	ExerciseID int64    `json:"exercise_id"`
	SetIndex   int      `json:"set_index"`
	WeightKg   float64  `json:"weight_kg"`
	Reps       int      `json:"reps"`
	RPE        *float64 `json:"rpe,omitempty"`
	RIR        *int     `json:"rir,omitempty"`
	IsWarmup   bool     `json:"is_warmup"`
	Tempo      *string  `json:"tempo,omitempty"`
	RestSec    *int     `json:"rest_sec,omitempty"`
}

// Load returns weight × reps.
func (s Set) Load() float64 {
	return s.WeightKg * float64(s.Reps)
}

// IsEmpty reports whether the set was added blank and never filled in.
func (s Set) IsEmpty() bool {
	return s.WeightKg == 0 && s.Reps == 0
}

// SetRow is a Set joined with its exercise, as listed for a session.
type SetRow struct {
	Set
	ExerciseName string `json:"exercise_name"`
	Unit         string `json:"unit"`
}

// MediaType tags a session attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// IsValid reports whether t is a known media type.
func (t MediaType) IsValid() bool {
	return t == MediaImage || t == MediaVideo
}

// SessionMedia is an image or video attached to a session.
type SessionMedia struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	URI         string    `json:"uri"`
	ThumbURI    *string   `json:"thumb_uri,omitempty"`
	Type        MediaType `json:"type"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
	DurationSec *float64  `json:"duration_sec,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSessionMedia creates a SessionMedia row for the given session.
func NewSessionMedia(sessionID int64, uri string, mediaType MediaType) *SessionMedia {
	return &SessionMedia{
		SessionID: sessionID,
		URI:       uri,
		Type:      mediaType,
		CreatedAt: time.Now(),
	}
}

// WithThumb sets the thumbnail URI.
func (m *SessionMedia) WithThumb(uri string) *SessionMedia {
	m.ThumbURI = &uri
	return m
}

// WithDimensions sets width and height in pixels.
func (m *SessionMedia) WithDimensions(width, height int) *SessionMedia {
	m.Width = &width
	m.Height = &height
	return m
}

// WithDuration sets the clip length in seconds.
func (m *SessionMedia) WithDuration(seconds float64) *SessionMedia {
	m.DurationSec = &seconds
	return m
}

// Record is a personal-record set together with where it happened.
type Record struct {
	SetID        int64   `json:"set_id"`
	ExerciseID   int64   `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Date         string  `json:"date"`
	WeightKg     float64 `json:"weight_kg"`
	Reps         int     `json:"reps"`
}

// DeleteKind says what happened to a deleted exercise.
type DeleteKind string

const (
	// DeleteKindDeleted means the row was removed.
	DeleteKindDeleted DeleteKind = "deleted"
	// DeleteKindArchived means sets still reference the exercise, so it was archived.
	DeleteKindArchived DeleteKind = "archived"
)

// DeleteResult is the outcome of an exercise deletion.
type DeleteResult struct {
	Kind DeleteKind `json:"kind"`
}

// Archived reports whether the exercise was soft deleted.
func (r DeleteResult) Archived() bool {
	return r.Kind == DeleteKindArchived
}
