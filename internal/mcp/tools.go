// ABOUTME: MCP tool implementations for the training log.
// ABOUTME: Covers taxonomy, sessions, the set ledger with undo, records, streaks and media.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harperreed/trainlog/internal/media"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
	"github.com/harperreed/trainlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_body_parts",
		Description: "List body parts in display order",
	}, s.handleListBodyParts)

	addTool(s, &mcp.Tool{
		Name:        "add_body_part",
		Description: "Add a body part at the end of the display order",
	}, s.handleAddBodyPart)

	addTool(s, &mcp.Tool{
		Name:        "delete_body_part",
		Description: "Delete a body part; its exercises become uncategorized",
	}, s.handleDeleteBodyPart)

	addTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercises of a body part, or uncategorized ones when no body part is given",
	}, s.handleListExercises)

	addTool(s, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add a user exercise, optionally under a body part",
	}, s.handleAddExercise)

	addTool(s, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise. Exercises with logged sets are archived instead",
	}, s.handleDeleteExercise)

	addTool(s, &mcp.Tool{
		Name:        "get_session",
		Description: "Get the session of a date with its sets grouped by exercise, summary and media",
	}, s.handleGetSession)

	addTool(s, &mcp.Tool{
		Name:        "set_session_note",
		Description: "Replace the note of a session, creating the session if needed",
	}, s.handleSetSessionNote)

	addTool(s, &mcp.Tool{
		Name:        "set_session_times",
		Description: "Set start and end times of a session",
	}, s.handleSetSessionTimes)

	addTool(s, &mcp.Tool{
		Name:        "list_session_dates",
		Description: "List dates with a session in a month, optionally only those training a body part",
	}, s.handleListSessionDates)

	addTool(s, &mcp.Tool{
		Name:        "add_set",
		Description: "Append a set for an exercise to the session of a date",
	}, s.handleAddSet)

	addTool(s, &mcp.Tool{
		Name:        "update_set",
		Description: "Change weight and reps of a set, and optionally its warmup flag",
	}, s.handleUpdateSet)

	addTool(s, &mcp.Tool{
		Name:        "delete_set",
		Description: "Delete a set. It can be restored with undo_delete_set for a few seconds",
	}, s.handleDeleteSet)

	addTool(s, &mcp.Tool{
		Name:        "undo_delete_set",
		Description: "Restore the most recently deleted set at its original position",
	}, s.handleUndoDeleteSet)

	addTool(s, &mcp.Tool{
		Name:        "prune",
		Description: "Remove sets that were never filled in (0 kg x 0 reps) and empty sessions",
	}, s.handlePrune)

	addTool(s, &mcp.Tool{
		Name:        "get_records",
		Description: "Get the heaviest work set and the work set with the most reps",
	}, s.handleGetRecords)

	addTool(s, &mcp.Tool{
		Name:        "get_streak",
		Description: "Get the longest and current runs of consecutive training days",
	}, s.handleGetStreak)

	addTool(s, &mcp.Tool{
		Name:        "attach_media",
		Description: "Attach an image or video file to the session of a date",
	}, s.handleAttachMedia)

	addTool(s, &mcp.Tool{
		Name:        "delete_media",
		Description: "Delete a session attachment and its files",
	}, s.handleDeleteMedia)
}

// Tool input/output types

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type idOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type nameInput struct {
	Name string `json:"name" jsonschema:"Name to add"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Row id"`
}

type bodyPartsOutput struct {
	BodyParts []*models.BodyPart `json:"body_parts"`
}

type listExercisesInput struct {
	BodyPart        string `json:"body_part,omitempty" jsonschema:"Body part name; omit for uncategorized exercises"`
	IncludeArchived bool   `json:"include_archived,omitempty" jsonschema:"Also list archived exercises"`
}

type exercisesOutput struct {
	Exercises []*models.Exercise `json:"exercises"`
}

type addExerciseInput struct {
	Name     string `json:"name" jsonschema:"Exercise name"`
	BodyPart string `json:"body_part,omitempty" jsonschema:"Body part name"`
}

type deleteExerciseOutput struct {
	Kind    models.DeleteKind `json:"kind"`
	Message string            `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
}

// Outputs carry times as RFC3339 strings so the inferred schemas stay plain.

type sessionOutput struct {
	Date      string                `json:"date"`
	Found     bool                  `json:"found"`
	SessionID int64                 `json:"session_id,omitempty"`
	StartAt   string                `json:"start_at,omitempty"`
	EndAt     string                `json:"end_at,omitempty"`
	Note      string                `json:"note,omitempty"`
	Groups    []stats.ExerciseGroup `json:"groups,omitempty"`
	Summary   stats.Summary         `json:"summary"`
	Media     []mediaInfo           `json:"media,omitempty"`
}

type mediaInfo struct {
	ID          int64    `json:"id"`
	URI         string   `json:"uri"`
	ThumbURI    string   `json:"thumb_uri,omitempty"`
	Type        string   `json:"type"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
}

type sessionNoteInput struct {
	Date string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	Note string `json:"note" jsonschema:"Full note text"`
}

type sessionTimesInput struct {
	Date    string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	StartAt string `json:"start_at,omitempty" jsonschema:"Start time (RFC3339 or HH:MM)"`
	EndAt   string `json:"end_at,omitempty" jsonschema:"End time (RFC3339 or HH:MM)"`
}

type sessionDatesInput struct {
	Month    string `json:"month,omitempty" jsonschema:"Month (YYYY-MM), defaults to the current month"`
	BodyPart string `json:"body_part,omitempty" jsonschema:"Only dates training this body part"`
}

type sessionDatesOutput struct {
	Month string   `json:"month"`
	Dates []string `json:"dates"`
}

type addSetInput struct {
	Date       string  `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	ExerciseID int64   `json:"exercise_id,omitempty" jsonschema:"Exercise id"`
	Exercise   string  `json:"exercise,omitempty" jsonschema:"Exercise name, used when exercise_id is not given"`
	WeightKg   float64 `json:"weight_kg" jsonschema:"Weight in kg"`
	Reps       int     `json:"reps" jsonschema:"Repetitions"`
	Warmup     bool    `json:"warmup,omitempty" jsonschema:"Mark as a warmup set"`
}

type setOutput struct {
	ID         int64   `json:"id"`
	ExerciseID int64   `json:"exercise_id"`
	SetIndex   int     `json:"set_index"`
	WeightKg   float64 `json:"weight_kg"`
	Reps       int     `json:"reps"`
	IsWarmup   bool    `json:"is_warmup"`
	Message    string  `json:"message"`
}

type updateSetInput struct {
	SetID    int64   `json:"set_id" jsonschema:"Set id"`
	WeightKg float64 `json:"weight_kg" jsonschema:"Weight in kg"`
	Reps     int     `json:"reps" jsonschema:"Repetitions"`
	Warmup   *bool   `json:"warmup,omitempty" jsonschema:"Set or clear the warmup flag"`
}

type deleteSetInput struct {
	SetID int64 `json:"set_id" jsonschema:"Set id"`
}

type deleteSetOutput struct {
	Deleted   setOutput `json:"deleted"`
	UndoUntil string    `json:"undo_until"`
	Message   string    `json:"message"`
}

type pruneInput struct {
	Date string `json:"date,omitempty" jsonschema:"Only prune this session (YYYY-MM-DD); omit to prune everywhere"`
}

type pruneOutput struct {
	Sets     int64  `json:"sets"`
	Sessions int64  `json:"sessions"`
	Message  string `json:"message"`
}

type recordsOutput struct {
	MaxWeight *models.Record `json:"max_weight,omitempty"`
	MaxReps   *models.Record `json:"max_reps,omitempty"`
}

type streakOutput struct {
	Longest int    `json:"longest"`
	Current int    `json:"current"`
	Today   string `json:"today"`
}

type attachMediaInput struct {
	Date        string  `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	Path        string  `json:"path" jsonschema:"Path of the image or video file"`
	ThumbPath   string  `json:"thumb_path,omitempty" jsonschema:"Optional thumbnail image path"`
	DurationSec float64 `json:"duration_sec,omitempty" jsonschema:"Video length in seconds"`
}

type mediaOutput struct {
	Media   mediaInfo `json:"media"`
	Message string    `json:"message"`
}

// Tool handlers

func (s *Server) handleListBodyParts(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, bodyPartsOutput, error) {
	parts, err := s.repo.ListBodyParts(ctx)
	if err != nil {
		return nil, bodyPartsOutput{}, fmt.Errorf("failed to list body parts: %w", err)
	}
	return nil, bodyPartsOutput{BodyParts: parts}, nil
}

func (s *Server) handleAddBodyPart(ctx context.Context, req *mcp.CallToolRequest, input nameInput) (*mcp.CallToolResult, idOutput, error) {
	id, err := s.repo.InsertBodyPart(ctx, input.Name)
	if err != nil {
		return nil, idOutput{}, fmt.Errorf("failed to add body part: %w", err)
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Added body part %s (ID: %d)", input.Name, id)}, nil
}

func (s *Server) handleDeleteBodyPart(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteBodyPart(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete body part: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted body part %d", input.ID)}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, exercisesOutput, error) {
	partID, err := s.bodyPartID(ctx, input.BodyPart)
	if err != nil {
		return nil, exercisesOutput{}, err
	}

	var list []*models.Exercise
	if input.IncludeArchived {
		list, err = s.repo.ListExercisesForPart(ctx, partID)
	} else {
		list, err = s.repo.ListExercisesByBodyPart(ctx, partID)
	}
	if err != nil {
		return nil, exercisesOutput{}, fmt.Errorf("failed to list exercises: %w", err)
	}
	return nil, exercisesOutput{Exercises: list}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, idOutput, error) {
	partID, err := s.bodyPartID(ctx, input.BodyPart)
	if err != nil {
		return nil, idOutput{}, err
	}

	id, err := s.repo.InsertExercise(ctx, input.Name, partID)
	if err != nil {
		return nil, idOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Added exercise %s (ID: %d)", input.Name, id)}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, deleteExerciseOutput, error) {
	res, err := s.repo.DeleteExercise(ctx, input.ID)
	if err != nil {
		return nil, deleteExerciseOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}

	msg := fmt.Sprintf("Deleted exercise %d", input.ID)
	if res.Archived() {
		msg = fmt.Sprintf("Exercise %d has logged sets and was archived", input.ID)
	}
	return nil, deleteExerciseOutput{Kind: res.Kind, Message: msg}, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, sessionOutput, error) {
	date := s.dateOrToday(input.Date)
	out, err := s.sessionView(ctx, date)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	return nil, out, nil
}

// sessionView assembles a session for display without creating it.
func (s *Server) sessionView(ctx context.Context, date string) (sessionOutput, error) {
	out := sessionOutput{Date: date}

	id, found, err := s.repo.FindSessionID(ctx, date)
	if err != nil {
		return out, fmt.Errorf("failed to find session: %w", err)
	}
	if !found {
		return out, nil
	}
	out.Found = true
	out.SessionID = id

	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return out, fmt.Errorf("failed to get session: %w", err)
	}
	out.StartAt = formatTime(sess.StartAt)
	out.EndAt = formatTime(sess.EndAt)
	out.Note = sess.Note

	rows, err := s.repo.ListSetsBySession(ctx, id)
	if err != nil {
		return out, fmt.Errorf("failed to list sets: %w", err)
	}
	out.Groups = stats.GroupByExercise(rows)
	out.Summary = stats.Summarize(rows)

	list, err := s.repo.ListSessionMedia(ctx, id)
	if err != nil {
		return out, fmt.Errorf("failed to list media: %w", err)
	}
	for _, m := range list {
		out.Media = append(out.Media, toMediaInfo(m))
	}
	return out, nil
}

func (s *Server) handleSetSessionNote(ctx context.Context, req *mcp.CallToolRequest, input sessionNoteInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := s.dateOrToday(input.Date)
	id, err := s.repo.GetOrCreateSession(ctx, date)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to open session: %w", err)
	}
	if err := s.repo.UpdateSessionNote(ctx, id, input.Note); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update note: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated note for %s", date)}, nil
}

func (s *Server) handleSetSessionTimes(ctx context.Context, req *mcp.CallToolRequest, input sessionTimesInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := s.dateOrToday(input.Date)

	start, err := parseClock(date, input.StartAt)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	end, err := parseClock(date, input.EndAt)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	id, err := s.repo.GetOrCreateSession(ctx, date)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to open session: %w", err)
	}
	if err := s.repo.UpdateSessionTimes(ctx, id, start, end); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update times: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated times for %s", date)}, nil
}

func (s *Server) handleListSessionDates(ctx context.Context, req *mcp.CallToolRequest, input sessionDatesInput) (*mcp.CallToolResult, sessionDatesOutput, error) {
	month := input.Month
	if month == "" {
		month = s.now().Format(models.YearMonthLayout)
	}

	var dates []string
	var err error
	if input.BodyPart == "" {
		dates, err = s.repo.ListSessionDatesInMonth(ctx, month)
	} else {
		var partID *int64
		if partID, err = s.bodyPartID(ctx, input.BodyPart); err != nil {
			return nil, sessionDatesOutput{}, err
		}
		dates, err = s.repo.ListSessionDatesInMonthByBodyPart(ctx, month, *partID)
	}
	if err != nil {
		return nil, sessionDatesOutput{}, fmt.Errorf("failed to list session dates: %w", err)
	}
	return nil, sessionDatesOutput{Month: month, Dates: dates}, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, setOutput, error) {
	ex, err := s.resolveExercise(ctx, input.ExerciseID, input.Exercise)
	if err != nil {
		return nil, setOutput{}, err
	}

	date := s.dateOrToday(input.Date)
	sessionID, err := s.repo.GetOrCreateSession(ctx, date)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to open session: %w", err)
	}

	id, err := s.repo.AppendSet(ctx, sessionID, ex.ID, input.WeightKg, input.Reps, input.Warmup)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to add set: %w", err)
	}

	set, err := s.repo.GetSet(ctx, id)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to read set: %w", err)
	}
	out := toSetOutput(set)
	out.Message = fmt.Sprintf("Added %s set %d: %.1f kg x %d on %s (ID: %d)",
		ex.Name, set.SetIndex, set.WeightKg, set.Reps, date, id)
	return nil, out, nil
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, setOutput, error) {
	if err := s.repo.UpdateSet(ctx, input.SetID, input.WeightKg, input.Reps); err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to update set: %w", err)
	}
	if input.Warmup != nil {
		if err := s.repo.UpdateSetWarmup(ctx, input.SetID, *input.Warmup); err != nil {
			return nil, setOutput{}, fmt.Errorf("failed to update warmup: %w", err)
		}
	}

	set, err := s.repo.GetSet(ctx, input.SetID)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to read set: %w", err)
	}
	out := toSetOutput(set)
	out.Message = fmt.Sprintf("Updated set %d: %.1f kg x %d", set.ID, set.WeightKg, set.Reps)
	return nil, out, nil
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input deleteSetInput) (*mcp.CallToolResult, deleteSetOutput, error) {
	deleted, err := s.repo.DeleteSet(ctx, input.SetID)
	if err != nil {
		return nil, deleteSetOutput{}, fmt.Errorf("failed to delete set: %w", err)
	}

	entry := s.undo.Put(*deleted)
	logrus.WithFields(logrus.Fields{
		"set_id":    deleted.ID,
		"set_index": deleted.SetIndex,
	}).Debug("set deleted, undo armed")

	return nil, deleteSetOutput{
		Deleted:   toSetOutput(deleted),
		UndoUntil: entry.ExpiresAt.Format(time.RFC3339),
		Message: fmt.Sprintf("Deleted set %d. Call undo_delete_set within %s to restore it",
			deleted.ID, s.undo.Window()),
	}, nil
}

func (s *Server) handleUndoDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, setOutput, error) {
	entry, ok := s.undo.Take()
	if !ok {
		return nil, setOutput{}, errors.New("nothing to undo: no set was deleted recently")
	}

	id, err := s.restoreSet(ctx, entry.Set)
	if err != nil {
		s.undo.Restore(entry)
		return nil, setOutput{}, fmt.Errorf("failed to restore set: %w", err)
	}

	set, err := s.repo.GetSet(ctx, id)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to read set: %w", err)
	}
	out := toSetOutput(set)
	out.Message = fmt.Sprintf("Restored set at position %d (new ID: %d)", set.SetIndex, id)
	return nil, out, nil
}

// restoreSet reinserts a deleted set at its old position. When the run has
// shrunk since the delete, the set goes to the end of the run instead.
func (s *Server) restoreSet(ctx context.Context, d models.Set) (int64, error) {
	id, err := s.repo.InsertSetAtIndex(ctx, d.SessionID, d.ExerciseID, d.SetIndex, d.WeightKg, d.Reps, d.IsWarmup)
	if !errors.Is(err, storage.ErrInvalidIndex) {
		return id, err
	}

	rows, err := s.repo.ListSetsBySession(ctx, d.SessionID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range rows {
		if r.ExerciseID == d.ExerciseID {
			count++
		}
	}
	return s.repo.InsertSetAtIndex(ctx, d.SessionID, d.ExerciseID, count+1, d.WeightKg, d.Reps, d.IsWarmup)
}

func (s *Server) handlePrune(ctx context.Context, req *mcp.CallToolRequest, input pruneInput) (*mcp.CallToolResult, pruneOutput, error) {
	var scope *int64
	if input.Date != "" {
		id, found, err := s.repo.FindSessionID(ctx, input.Date)
		if err != nil {
			return nil, pruneOutput{}, fmt.Errorf("failed to find session: %w", err)
		}
		if !found {
			return nil, pruneOutput{Message: fmt.Sprintf("No session on %s", input.Date)}, nil
		}
		scope = &id
	}

	sets, err := s.repo.PruneZeroSets(ctx, scope)
	if err != nil {
		return nil, pruneOutput{}, fmt.Errorf("failed to prune sets: %w", err)
	}
	// The session of a set awaiting undo must survive so the set can return.
	var keep []int64
	if entry, ok := s.undo.Pending(); ok {
		keep = append(keep, entry.Set.SessionID)
	}
	sessions, err := s.repo.PruneEmptySessions(ctx, keep...)
	if err != nil {
		return nil, pruneOutput{}, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return nil, pruneOutput{
		Sets:     sets,
		Sessions: sessions,
		Message:  fmt.Sprintf("Removed %d empty sets and %d empty sessions", sets, sessions),
	}, nil
}

func (s *Server) handleGetRecords(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, recordsOutput, error) {
	out, err := s.records(ctx)
	if err != nil {
		return nil, recordsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) records(ctx context.Context) (recordsOutput, error) {
	var out recordsOutput
	var err error
	if out.MaxWeight, err = s.repo.MaxWeightRecord(ctx); err != nil {
		return out, fmt.Errorf("failed to get weight record: %w", err)
	}
	if out.MaxReps, err = s.repo.MaxRepsRecord(ctx); err != nil {
		return out, fmt.Errorf("failed to get reps record: %w", err)
	}
	return out, nil
}

func (s *Server) handleGetStreak(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, streakOutput, error) {
	out, err := s.streak(ctx)
	if err != nil {
		return nil, streakOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) streak(ctx context.Context) (streakOutput, error) {
	dates, err := s.repo.ListAllSessionDates(ctx)
	if err != nil {
		return streakOutput{}, fmt.Errorf("failed to list session dates: %w", err)
	}
	st, err := stats.ComputeStreak(dates, s.now())
	if err != nil {
		return streakOutput{}, err
	}
	return streakOutput{Longest: st.Longest, Current: st.Current, Today: s.today()}, nil
}

func (s *Server) handleAttachMedia(ctx context.Context, req *mcp.CallToolRequest, input attachMediaInput) (*mcp.CallToolResult, mediaOutput, error) {
	if s.media == nil {
		return nil, mediaOutput{}, errors.New("media storage is not configured")
	}

	date := s.dateOrToday(input.Date)
	sessionID, err := s.repo.GetOrCreateSession(ctx, date)
	if err != nil {
		return nil, mediaOutput{}, fmt.Errorf("failed to open session: %w", err)
	}

	m, err := s.media.Attach(ctx, sessionID, input.Path, media.AttachOptions{
		ThumbPath:   input.ThumbPath,
		DurationSec: input.DurationSec,
	})
	if err != nil {
		return nil, mediaOutput{}, fmt.Errorf("failed to attach media: %w", err)
	}
	return nil, mediaOutput{Media: toMediaInfo(m), Message: fmt.Sprintf("Attached %s to %s (ID: %d)", m.Type, date, m.ID)}, nil
}

func (s *Server) handleDeleteMedia(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if s.media == nil {
		if _, err := s.repo.DeleteSessionMedia(ctx, input.ID); err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to delete media: %w", err)
		}
	} else if _, err := s.media.Remove(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete media: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted media %d", input.ID)}, nil
}

// Helpers

func (s *Server) dateOrToday(date string) string {
	if date == "" {
		return s.today()
	}
	return date
}

// bodyPartID resolves a body part name. An empty name means uncategorized.
func (s *Server) bodyPartID(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	bp, found, err := s.repo.FindBodyPartByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find body part: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("unknown body part: %s", name)
	}
	return &bp.ID, nil
}

func (s *Server) resolveExercise(ctx context.Context, id int64, name string) (*models.Exercise, error) {
	if id != 0 {
		ex, err := s.repo.GetExercise(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get exercise: %w", err)
		}
		return ex, nil
	}
	if name == "" {
		return nil, errors.New("exercise_id or exercise is required")
	}
	ex, found, err := s.repo.FindExerciseByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("unknown exercise: %s", name)
	}
	return ex, nil
}

// parseClock accepts RFC3339 or a local HH:MM on the session date.
func parseClock(date, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(models.DateLayout+" 15:04", date+" "+value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q (want RFC3339 or HH:MM)", value)
	}
	return &t, nil
}

func toSetOutput(set *models.Set) setOutput {
	return setOutput{
		ID:         set.ID,
		ExerciseID: set.ExerciseID,
		SetIndex:   set.SetIndex,
		WeightKg:   set.WeightKg,
		Reps:       set.Reps,
		IsWarmup:   set.IsWarmup,
	}
}

func toMediaInfo(m *models.SessionMedia) mediaInfo {
	info := mediaInfo{
		ID:          m.ID,
		URI:         m.URI,
		Type:        string(m.Type),
		Width:       m.Width,
		Height:      m.Height,
		DurationSec: m.DurationSec,
	}
	if m.ThumbURI != nil {
		info.ThumbURI = *m.ThumbURI
	}
	return info
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
