// ABOUTME: Export and import functionality for training data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/trainlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for training data.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	BodyParts  []*models.BodyPart `json:"body_parts" yaml:"body_parts"`
	Exercises  []*models.Exercise `json:"exercises" yaml:"exercises"`
	Sessions   []ExportSession    `json:"sessions" yaml:"sessions"`
}

// ExportSession is a session with its sets and media. Sets refer to their
// exercise by name so that an export can be replayed into another store.
type ExportSession struct {
	Date    string                 `json:"date"`
	StartAt *time.Time             `json:"start_at,omitempty"`
	EndAt   *time.Time             `json:"end_at,omitempty"`
	Note    string                 `json:"note,omitempty"`
	Sets    []ExportSet            `json:"sets"`
	Media   []*models.SessionMedia `json:"media,omitempty"`
}

// ExportSet is one set inside an ExportSession.
type ExportSet struct {
	Exercise string  `json:"exercise"`
	SetIndex int     `json:"set_index"`
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
	IsWarmup bool    `json:"is_warmup,omitempty"`
}

// GetAllData retrieves all data for export. Sessions are in date order.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	parts, err := d.ListBodyParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list body parts: %w", err)
	}

	exercises, err := d.ListAllExercises(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	sessions, err := d.ListSessions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]ExportSession, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		es := ExportSession{
			Date:    s.Date,
			StartAt: s.StartAt,
			EndAt:   s.EndAt,
			Note:    s.Note,
			Sets:    []ExportSet{},
		}

		rows, err := d.ListSetsBySession(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("list sets: %w", err)
		}
		for _, r := range rows {
			es.Sets = append(es.Sets, ExportSet{
				Exercise: r.ExerciseName,
				SetIndex: r.SetIndex,
				WeightKg: r.WeightKg,
				Reps:     r.Reps,
				IsWarmup: r.IsWarmup,
			})
		}

		if es.Media, err = d.ListSessionMedia(ctx, s.ID); err != nil {
			return nil, fmt.Errorf("list media: %w", err)
		}
		out = append(out, es)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "trainlog",
		BodyParts:  parts,
		Exercises:  exercises,
		Sessions:   out,
	}, nil
}

// ImportData replays an export into the store in one transaction, so a
// failure leaves the store untouched. Body parts and exercises are matched
// by name and created when missing; an exercise created here keeps its
// archived flag. Sessions are matched by date and their sets are appended
// in index order.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		return importData(ctx, tx, data)
	})
}

func importData(ctx context.Context, tx *sql.Tx, data *ExportData) error {
	partNames := make(map[int64]string, len(data.BodyParts))
	for _, bp := range data.BodyParts {
		partNames[bp.ID] = bp.Name
		if _, err := ensureBodyPart(ctx, tx, bp.Name); err != nil {
			return fmt.Errorf("import body part: %w", err)
		}
	}

	exerciseIDs := make(map[string]int64)
	for _, ex := range data.Exercises {
		var partName string
		if ex.BodyPartID != nil {
			partName = partNames[*ex.BodyPartID]
		}
		id, err := ensureExercise(ctx, tx, ex.Name, partName, ex.IsArchived)
		if err != nil {
			return fmt.Errorf("import exercise: %w", err)
		}
		exerciseIDs[ex.Name] = id
	}

	for _, s := range data.Sessions {
		if _, err := models.ParseDate(s.Date); err != nil {
			return fmt.Errorf("import session: %w: %v", ErrInvalidDate, err)
		}
		sessionID, err := getOrCreateSession(ctx, tx, s.Date)
		if err != nil {
			return fmt.Errorf("import session %s: %w", s.Date, err)
		}
		if s.Note != "" {
			if err := updateSessionNote(ctx, tx, sessionID, s.Note); err != nil {
				return fmt.Errorf("import session note: %w", err)
			}
		}
		if s.StartAt != nil || s.EndAt != nil {
			if err := updateSessionTimes(ctx, tx, sessionID, s.StartAt, s.EndAt); err != nil {
				return fmt.Errorf("import session times: %w", err)
			}
		}

		sets := append([]ExportSet(nil), s.Sets...)
		sort.SliceStable(sets, func(i, j int) bool {
			if sets[i].Exercise != sets[j].Exercise {
				return sets[i].Exercise < sets[j].Exercise
			}
			return sets[i].SetIndex < sets[j].SetIndex
		})
		for _, set := range sets {
			exerciseID, ok := exerciseIDs[set.Exercise]
			if !ok {
				if exerciseID, err = ensureExercise(ctx, tx, set.Exercise, "", false); err != nil {
					return fmt.Errorf("import exercise: %w", err)
				}
				exerciseIDs[set.Exercise] = exerciseID
			}
			if err := validateLoad(set.WeightKg, set.Reps); err != nil {
				return fmt.Errorf("import set: %w", err)
			}
			if _, err := appendSet(ctx, tx, sessionID, exerciseID, set.WeightKg, set.Reps, set.IsWarmup); err != nil {
				return fmt.Errorf("import set: %w", err)
			}
		}

		for _, m := range s.Media {
			m.SessionID = sessionID
			if _, err := insertMedia(ctx, tx, m); err != nil {
				return fmt.Errorf("import media: %w", err)
			}
		}
	}
	return nil
}

func ensureBodyPart(ctx context.Context, q querier, name string) (int64, error) {
	bp, found, err := findBodyPart(ctx, q, name)
	if err != nil {
		return 0, err
	}
	if found {
		return bp.ID, nil
	}
	return insertBodyPart(ctx, q, name)
}

// ensureExercise returns the exercise named name, creating it when missing.
// An existing exercise is never re-archived.
func ensureExercise(ctx context.Context, q querier, name, bodyPart string, archived bool) (int64, error) {
	ex, found, err := findExercise(ctx, q, name)
	if err != nil {
		return 0, err
	}
	if found {
		return ex.ID, nil
	}

	var bodyPartID *int64
	if bodyPart != "" {
		id, err := ensureBodyPart(ctx, q, bodyPart)
		if err != nil {
			return 0, err
		}
		bodyPartID = &id
	}
	id, err := insertExercise(ctx, q, name, bodyPartID)
	if err != nil {
		return 0, err
	}
	if archived {
		if _, err := q.ExecContext(ctx,
			"UPDATE exercises SET is_archived = 1 WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("archive exercise: %w", err)
		}
	}
	return id, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with sessions keyed by date.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                 `yaml:"version"`
		ExportedAt string                 `yaml:"exported_at"`
		Tool       string                 `yaml:"tool"`
		BodyParts  []string               `yaml:"body_parts"`
		Exercises  map[string][]string    `yaml:"exercises"`
		Sessions   map[string]yamlSession `yaml:"sessions"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		BodyParts:  make([]string, 0, len(data.BodyParts)),
		Exercises:  make(map[string][]string),
		Sessions:   make(map[string]yamlSession, len(data.Sessions)),
	}

	partNames := make(map[int64]string, len(data.BodyParts))
	for _, bp := range data.BodyParts {
		partNames[bp.ID] = bp.Name
		yamlData.BodyParts = append(yamlData.BodyParts, bp.Name)
	}

	// Group exercises by body part
	for _, ex := range data.Exercises {
		group := "uncategorized"
		if ex.BodyPartID != nil {
			group = partNames[*ex.BodyPartID]
		}
		name := ex.Name
		if ex.IsArchived {
			name += " (archived)"
		}
		yamlData.Exercises[group] = append(yamlData.Exercises[group], name)
	}

	for _, s := range data.Sessions {
		ys := yamlSession{Note: s.Note}
		for _, set := range s.Sets {
			ys.Sets = append(ys.Sets, yamlSet{
				Exercise: set.Exercise,
				Index:    set.SetIndex,
				WeightKg: set.WeightKg,
				Reps:     set.Reps,
				Warmup:   set.IsWarmup,
			})
		}
		for _, m := range s.Media {
			ys.Media = append(ys.Media, m.URI)
		}
		yamlData.Sessions[s.Date] = ys
	}

	return yaml.Marshal(yamlData)
}

type yamlSession struct {
	Note  string    `yaml:"note,omitempty"`
	Sets  []yamlSet `yaml:"sets,omitempty"`
	Media []string  `yaml:"media,omitempty"`
}

type yamlSet struct {
	Exercise string  `yaml:"exercise"`
	Index    int     `yaml:"index"`
	WeightKg float64 `yaml:"weight_kg"`
	Reps     int     `yaml:"reps"`
	Warmup   bool    `yaml:"warmup,omitempty"`
}

// ExportMarkdown exports sessions on or after since as Markdown. A nil
// since exports everything.
func (d *DB) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Training Log Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var cutoff string
	if since != nil {
		cutoff = models.FormatDate(*since)
	}

	for _, s := range data.Sessions {
		if s.Date < cutoff {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s\n\n", s.Date))
		if s.Note != "" {
			sb.WriteString(s.Note)
			sb.WriteString("\n\n")
		}
		if len(s.Sets) == 0 {
			sb.WriteString("_No sets._\n\n")
			continue
		}

		sb.WriteString("| Exercise | Set | Weight | Reps | Warmup |\n")
		sb.WriteString("|----------|-----|--------|------|--------|\n")
		for _, set := range s.Sets {
			warmup := ""
			if set.IsWarmup {
				warmup = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f | %d | %s |\n",
				set.Exercise, set.SetIndex, set.WeightKg, set.Reps, warmup))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}
