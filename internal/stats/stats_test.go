// ABOUTME: Tests for session summaries, grouping and streaks.
// ABOUTME: Covers warmup exclusion and the streak edge cases.
package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
)

func row(exerciseID int64, name string, index int, weight float64, reps int, warmup bool) models.SetRow {
	return models.SetRow{
		Set: models.Set{
			ExerciseID: exerciseID,
			SetIndex:   index,
			WeightKg:   weight,
			Reps:       reps,
			IsWarmup:   warmup,
		},
		ExerciseName: name,
		Unit:         "kg",
	}
}

func TestSummarize(t *testing.T) {
	rows := []models.SetRow{
		row(1, "スクワット", 1, 60, 10, true),
		row(1, "スクワット", 2, 100, 5, false),
		row(1, "スクワット", 3, 100, 5, false),
		row(2, "ベンチプレス", 1, 80, 8, false),
	}

	sum := stats.Summarize(rows)
	assert.Equal(t, 2, sum.Exercises)
	assert.Equal(t, 3, sum.WorkSets)
	assert.Equal(t, 1, sum.WarmupSets)
	assert.Equal(t, 18, sum.TotalReps)
	assert.InDelta(t, 1640.0, sum.TonnageKg, 0.001)
	assert.InDelta(t, 1.64, sum.TonnageTons(), 0.0001)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, stats.Summary{}, stats.Summarize(nil))
}

func TestSummarize_WarmupOnlyExerciseStillCounted(t *testing.T) {
	sum := stats.Summarize([]models.SetRow{row(3, "プランク", 1, 0, 60, true)})
	assert.Equal(t, 1, sum.Exercises)
	assert.Zero(t, sum.WorkSets)
	assert.Zero(t, sum.TonnageKg)
}

func TestGroupByExercise(t *testing.T) {
	rows := []models.SetRow{
		row(2, "スクワット", 1, 100, 5, false),
		row(2, "スクワット", 2, 100, 5, false),
		row(1, "ベンチプレス", 1, 80, 8, false),
	}

	groups := stats.GroupByExercise(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "スクワット", groups[0].ExerciseName)
	assert.Len(t, groups[0].Sets, 2)
	assert.Equal(t, int64(1), groups[1].ExerciseID)
	assert.Len(t, groups[1].Sets, 1)

	assert.Empty(t, stats.GroupByExercise(nil))
}

func TestComputeStreak(t *testing.T) {
	day := func(s string) time.Time {
		d, err := models.ParseDate(s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name    string
		dates   []string
		today   time.Time
		longest int
		current int
	}{
		{
			name:    "gap before today",
			dates:   []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"},
			today:   day("2024-01-05"),
			longest: 3,
			current: 1,
		},
		{
			name:    "no session today",
			dates:   []string{"2024-01-01", "2024-01-02"},
			today:   day("2024-01-03"),
			longest: 2,
			current: 0,
		},
		{
			name:    "current is longest",
			dates:   []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"},
			today:   day("2024-03-01"),
			longest: 4,
			current: 4,
		},
		{
			name:    "unsorted with duplicates",
			dates:   []string{"2024-01-03", "2024-01-01", "2024-01-02", "2024-01-02"},
			today:   day("2024-01-03"),
			longest: 3,
			current: 3,
		},
		{
			name:    "empty",
			today:   day("2024-01-03"),
			longest: 0,
			current: 0,
		},
		{
			name:    "today in local time",
			dates:   []string{"2024-01-04", "2024-01-05"},
			today:   time.Date(2024, 1, 5, 23, 30, 0, 0, time.FixedZone("JST", 9*3600)),
			longest: 2,
			current: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stats.ComputeStreak(tt.dates, tt.today)
			require.NoError(t, err)
			assert.Equal(t, tt.longest, got.Longest)
			assert.Equal(t, tt.current, got.Current)
		})
	}
}

func TestComputeStreak_InvalidDate(t *testing.T) {
	_, err := stats.ComputeStreak([]string{"2024-01-01", "yesterday"}, time.Now())
	assert.Error(t, err)
}

func TestMonthMarks(t *testing.T) {
	marks := stats.MonthMarks([]string{"2024-06-01", "2024-06-15"})
	assert.True(t, marks["2024-06-01"])
	assert.True(t, marks["2024-06-15"])
	assert.False(t, marks["2024-06-02"])
}
