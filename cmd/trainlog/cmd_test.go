// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temp database and checks output and stored state.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/storage"
)

// setupTestCLI isolates config and data directories and returns a fresh
// database path for --db.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Cleanup(func() { _ = closeAll() })

	return filepath.Join(t.TempDir(), "trainlog.db")
}

// resetFlags restores every flag to its default so that state does not leak
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, dbFile string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--db", dbFile}, args...))

	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, dbFile string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dbFile, args...)
	require.NoError(t, err, "trainlog %v\n%s", args, out)
	return out
}

func openTestDB(t *testing.T, path string) *storage.DB {
	t.Helper()
	db, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sessionRows(t *testing.T, db *storage.DB, date string) []models.SetRow {
	t.Helper()
	ctx := context.Background()
	id, found, err := db.FindSessionID(ctx, date)
	require.NoError(t, err)
	require.True(t, found, "no session on %s", date)
	rows, err := db.ListSetsBySession(ctx, id)
	require.NoError(t, err)
	return rows
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		hour    int
	}{
		{"clock only", "08:30", false, 8},
		{"date and time with space", "2025-01-31 09:15", false, 9},
		{"date and time with T", "2025-01-31T10:00", false, 10},
		{"RFC3339", "2025-01-31T07:45:00Z", false, -1},
		{"invalid format", "31-01-2025", true, 0},
		{"invalid random string", "not a time", true, 0},
		{"empty string", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime("2025-01-31", tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, got.IsZero())
			if tt.hour >= 0 {
				assert.Equal(t, tt.hour, got.Hour())
				assert.Equal(t, "2025-01-31", models.FormatDate(got))
			}
		})
	}
}

func TestDateOrToday(t *testing.T) {
	got, err := dateOrToday("")
	require.NoError(t, err)
	assert.Equal(t, models.Today(), got)

	got, err = dateOrToday("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)

	_, err = dateOrToday("2024-02-30")
	assert.Error(t, err)
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "this is...", truncate("this is a long note", 10))
	assert.Equal(t, "ベンチ...", truncate("ベンチプレス用メモ", 6))

	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "胸    ", padRight("胸", 5))
	assert.Equal(t, "toolong", padRight("toolong", 3))
}

func TestPartCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	out := mustRun(t, dbFile, "part", "list")
	assert.Contains(t, out, "胸")
	assert.Contains(t, out, "全身")

	out = mustRun(t, dbFile, "part", "add", "前腕")
	assert.Contains(t, out, "Added body part 前腕")

	db := openTestDB(t, dbFile)
	bp, found, err := db.FindBodyPartByName(context.Background(), "前腕")
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, db.Close())

	mustRun(t, dbFile, "part", "rm", itoa(bp.ID))

	_, err = runCLI(t, dbFile, "part", "rm", itoa(bp.ID))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExerciseCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	out := mustRun(t, dbFile, "exercise", "list", "--part", "胸")
	assert.Contains(t, out, "ベンチプレス")

	out = mustRun(t, dbFile, "exercise", "add", "ケーブルクロス", "--part", "胸")
	assert.Contains(t, out, "Added exercise ケーブルクロス")

	out = mustRun(t, dbFile, "exercise", "list")
	assert.Contains(t, out, "No exercises found", "new exercise is not uncategorized")

	out = mustRun(t, dbFile, "exercise", "rm", "ケーブルクロス")
	assert.Contains(t, out, "Deleted ケーブルクロス")

	_, err := runCLI(t, dbFile, "exercise", "list", "--part", "存在しない")
	assert.ErrorContains(t, err, "unknown body part")
}

func TestExerciseDeleteArchivesUsed(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "set", "add", "ベンチプレス", "60", "10", "--date", "2024-06-01")

	out := mustRun(t, dbFile, "exercise", "rm", "ベンチプレス")
	assert.Contains(t, out, "Archived ベンチプレス")

	out = mustRun(t, dbFile, "exercise", "list", "--part", "胸")
	assert.NotContains(t, out, " ベンチプレス ")

	out = mustRun(t, dbFile, "exercise", "list", "--part", "胸", "--archived")
	assert.Contains(t, out, "(archived)")

	out = mustRun(t, dbFile, "session", "show", "2024-06-01")
	assert.Contains(t, out, "ベンチプレス", "history is kept")
}

func TestSetAddAndShow(t *testing.T) {
	dbFile := setupTestCLI(t)

	out := mustRun(t, dbFile, "set", "add", "ベンチプレス", "60", "10", "-d", "2024-06-01")
	assert.Contains(t, out, "Added ベンチプレス set 1: 60 kg x 10")

	out = mustRun(t, dbFile, "set", "add", "ベンチプレス", "80", "8", "-d", "2024-06-01")
	assert.Contains(t, out, "set 2")

	mustRun(t, dbFile, "set", "add", "ベンチプレス", "40", "12", "-d", "2024-06-01", "--warmup")

	out = mustRun(t, dbFile, "session", "show", "2024-06-01")
	assert.Contains(t, out, "ベンチプレス")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "1 exercises, 2 sets, 18 reps, 1.24 t (+1 warmup)")

	out = mustRun(t, dbFile, "session", "show", "--date", "2020-01-01")
	assert.Contains(t, out, "No session on 2020-01-01")
}

func TestSetAddValidation(t *testing.T) {
	dbFile := setupTestCLI(t)

	_, err := runCLI(t, dbFile, "set", "add", "ベンチプレス", "heavy", "10")
	assert.ErrorContains(t, err, "invalid weight")

	_, err = runCLI(t, dbFile, "set", "add", "ベンチプレス", "60", "ten")
	assert.ErrorContains(t, err, "invalid reps")

	_, err = runCLI(t, dbFile, "set", "add", "存在しない種目", "60", "10")
	assert.ErrorContains(t, err, "unknown exercise")

	_, err = runCLI(t, dbFile, "set", "add", "--", "ベンチプレス", "-5", "10")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = runCLI(t, dbFile, "set", "add", "ベンチプレス", "60", "10", "--date", "June 1st")
	assert.Error(t, err)
}

func TestSetDeleteAndInsertRestore(t *testing.T) {
	dbFile := setupTestCLI(t)
	date := "2024-06-01"

	for _, w := range []string{"60", "80", "90"} {
		mustRun(t, dbFile, "set", "add", "ベンチプレス", w, "5", "-d", date)
	}

	db := openTestDB(t, dbFile)
	rows := sessionRows(t, db, date)
	require.Len(t, rows, 3)
	middle := rows[1]
	require.NoError(t, db.Close())

	out := mustRun(t, dbFile, "set", "rm", itoa(middle.ID))
	assert.Contains(t, out, "Deleted set")
	assert.Contains(t, out, "restore with: trainlog set insert")

	db = openTestDB(t, dbFile)
	rows = sessionRows(t, db, date)
	require.Len(t, rows, 2)
	assert.Equal(t, []int{1, 2}, []int{rows[0].SetIndex, rows[1].SetIndex})
	assert.Equal(t, 90.0, rows[1].WeightKg)
	require.NoError(t, db.Close())

	mustRun(t, dbFile, "set", "insert", itoa(middle.ExerciseID), "2", "80", "5", "-d", date)

	db = openTestDB(t, dbFile)
	rows = sessionRows(t, db, date)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i+1, r.SetIndex)
	}
	assert.Equal(t, []float64{60, 80, 90}, []float64{rows[0].WeightKg, rows[1].WeightKg, rows[2].WeightKg})
	require.NoError(t, db.Close())

	_, err := runCLI(t, dbFile, "set", "insert", "ベンチプレス", "9", "80", "5", "-d", date)
	assert.ErrorIs(t, err, storage.ErrInvalidIndex)
}

func TestSetUpdateAndWarmup(t *testing.T) {
	dbFile := setupTestCLI(t)
	date := "2024-06-01"

	mustRun(t, dbFile, "set", "add", "スクワット", "100", "5", "-d", date)

	db := openTestDB(t, dbFile)
	id := sessionRows(t, db, date)[0].ID
	require.NoError(t, db.Close())

	mustRun(t, dbFile, "set", "update", itoa(id), "102.5", "4")
	mustRun(t, dbFile, "set", "warmup", itoa(id), "on")

	db = openTestDB(t, dbFile)
	row := sessionRows(t, db, date)[0]
	assert.Equal(t, 102.5, row.WeightKg)
	assert.Equal(t, 4, row.Reps)
	assert.True(t, row.IsWarmup)
	require.NoError(t, db.Close())

	_, err := runCLI(t, dbFile, "set", "warmup", itoa(id), "maybe")
	assert.ErrorContains(t, err, "use on or off")

	_, err = runCLI(t, dbFile, "set", "update", "99999", "1", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionNoteAndTimes(t *testing.T) {
	dbFile := setupTestCLI(t)
	date := "2024-06-01"

	mustRun(t, dbFile, "session", "note", "腰に注意", "--date", date)
	mustRun(t, dbFile, "session", "start", "--date", date, "--at", "07:00")
	out := mustRun(t, dbFile, "session", "finish", "--date", date, "--at", "08:15")
	assert.Contains(t, out, "Finished 2024-06-01 at 08:15")

	out = mustRun(t, dbFile, "session", "show", date)
	assert.Contains(t, out, "腰に注意")
	assert.Contains(t, out, "07:00-08:15 (1h15m0s)")

	out = mustRun(t, dbFile, "session", "list")
	assert.Contains(t, out, date)
}

func TestSessionDatesAndCalendar(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "set", "add", "ベンチプレス", "60", "10", "-d", "2024-06-01")
	mustRun(t, dbFile, "set", "add", "スクワット", "100", "5", "-d", "2024-06-04")

	out := mustRun(t, dbFile, "session", "dates", "--month", "2024-06")
	assert.Equal(t, "2024-06-01\n2024-06-04\n", out)

	out = mustRun(t, dbFile, "session", "dates", "--month", "2024-06", "--part", "胸")
	assert.Equal(t, "2024-06-01\n", out)

	out = mustRun(t, dbFile, "calendar", "2024-06")
	assert.Contains(t, out, "June 2024")
	assert.Contains(t, out, "Mo Tu We Th Fr Sa Su")
	assert.Contains(t, out, "2 training day(s)")

	_, err := runCLI(t, dbFile, "calendar", "June")
	assert.Error(t, err)
}

func TestRenderMonthLayout(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	// June 2024 starts on a Saturday.
	first := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	renderMonth(&buf, first, map[string]bool{}, "")

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "                1  2", string(lines[2]))
}

func TestRecordsAndStreak(t *testing.T) {
	dbFile := setupTestCLI(t)

	out := mustRun(t, dbFile, "records")
	assert.Contains(t, out, "No records yet")

	today := models.Today()
	mustRun(t, dbFile, "set", "add", "デッドリフト", "140", "3", "-d", today)
	mustRun(t, dbFile, "set", "add", "デッドリフト", "100", "12", "-d", today)
	mustRun(t, dbFile, "set", "add", "デッドリフト", "200", "1", "-d", today, "--warmup")

	out = mustRun(t, dbFile, "records")
	assert.Contains(t, out, "Max weight")
	assert.Contains(t, out, "140 kg x 3")
	assert.Contains(t, out, "100 kg x 12")
	assert.NotContains(t, out, "200 kg")

	out = mustRun(t, dbFile, "streak")
	assert.Contains(t, out, "Current streak: 1 day")
	assert.Contains(t, out, "Longest streak: 1 day")
}

func TestPruneCommand(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "set", "add", "ベンチプレス", "0", "0", "-d", "2024-06-01")
	mustRun(t, dbFile, "set", "add", "ベンチプレス", "80", "8", "-d", "2024-06-01")
	mustRun(t, dbFile, "set", "add", "ベンチプレス", "0", "0", "-d", "2024-06-02")

	out := mustRun(t, dbFile, "prune")
	assert.Contains(t, out, "Removed 2 blank set(s) and 1 empty session(s)")

	db := openTestDB(t, dbFile)
	rows := sessionRows(t, db, "2024-06-01")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SetIndex)

	_, found, err := db.FindSessionID(context.Background(), "2024-06-02")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExportImportRoundTrip(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "set", "add", "ベンチプレス", "80", "8", "-d", "2024-06-01")
	mustRun(t, dbFile, "session", "note", "good", "-d", "2024-06-01")

	backup := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, dbFile, "export", "json", "-o", backup)
	assert.Contains(t, out, "Exported to")

	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	var data storage.ExportData
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.Sessions, 1)
	assert.Equal(t, "trainlog", data.Tool)

	out = mustRun(t, dbFile, "export", "markdown", "--since", "2024-01-01")
	assert.Contains(t, out, "## 2024-06-01")

	out = mustRun(t, dbFile, "export", "yaml")
	assert.Contains(t, out, "2024-06-01")

	_, err = runCLI(t, dbFile, "export", "csv")
	assert.ErrorContains(t, err, "unknown format")

	other := filepath.Join(t.TempDir(), "other.db")
	out = mustRun(t, other, "import", backup)
	assert.Contains(t, out, "Imported from")

	db := openTestDB(t, other)
	rows := sessionRows(t, db, "2024-06-01")
	require.Len(t, rows, 1)
	assert.Equal(t, "ベンチプレス", rows[0].ExerciseName)
	note, err := db.GetSessionNote(context.Background(), rows[0].SessionID)
	require.NoError(t, err)
	assert.Equal(t, "good", note)
}

func TestMigrateCommand(t *testing.T) {
	dbFile := setupTestCLI(t)
	source := filepath.Join(t.TempDir(), "old.db")

	mustRun(t, source, "set", "add", "スクワット", "100", "5", "-d", "2024-05-01")
	mustRun(t, source, "set", "add", "スクワット", "110", "3", "-d", "2024-05-01")

	out := mustRun(t, dbFile, "migrate", "--from", source, "--dry-run")
	assert.Contains(t, out, "Would migrate 1 session(s) with 2 set(s)")

	out = mustRun(t, dbFile, "migrate", "--from", source)
	assert.Contains(t, out, "Migrated 1 session(s), 2 set(s)")

	db := openTestDB(t, dbFile)
	assert.Len(t, sessionRows(t, db, "2024-05-01"), 2)
	require.NoError(t, db.Close())

	_, err := runCLI(t, dbFile, "migrate", "--from", filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestMediaCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	img := filepath.Join(t.TempDir(), "form.png")
	f, err := os.Create(img)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	require.NoError(t, f.Close())

	out := mustRun(t, dbFile, "media", "attach", img, "--date", "2024-06-01")
	assert.Contains(t, out, "Attached image to 2024-06-01")

	out = mustRun(t, dbFile, "media", "list", "--date", "2024-06-01")
	assert.Contains(t, out, "20x10")

	db := openTestDB(t, dbFile)
	id, _, err := db.FindSessionID(context.Background(), "2024-06-01")
	require.NoError(t, err)
	list, err := db.ListSessionMedia(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, db.Close())

	mustRun(t, dbFile, "media", "rm", itoa(list[0].ID))
	assert.NoFileExists(t, list[0].URI)

	_, err = runCLI(t, dbFile, "media", "attach", filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dbFile := setupTestCLI(t)
	cfgFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"log_level":"debug","undo_window_seconds":9}`), 0600))

	mustRun(t, dbFile, "--config", cfgFile, "part", "list")
	require.NotNil(t, cfg)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9*time.Second, cfg.UndoWindow())

	require.NoError(t, os.WriteFile(cfgFile, []byte(`{bad`), 0600))
	_, err := runCLI(t, dbFile, "--config", cfgFile, "part", "list")
	assert.ErrorContains(t, err, "failed to load config")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
