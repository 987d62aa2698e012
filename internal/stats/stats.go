// ABOUTME: Read-only projections over the set ledger: summaries, grouping, streaks and calendar marks.
// ABOUTME: Everything here is a pure function of rows already fetched from storage.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/trainlog/internal/models"
)

// Summary aggregates a session's (or a day's) sets. Totals count work sets
// only; warmups are counted separately.
type Summary struct {
	Exercises  int     `json:"exercises"`
	WorkSets   int     `json:"work_sets"`
	WarmupSets int     `json:"warmup_sets"`
	TotalReps  int     `json:"total_reps"`
	TonnageKg  float64 `json:"tonnage_kg"`
}

// TonnageTons returns the tonnage in metric tons.
func (s Summary) TonnageTons() float64 {
	return s.TonnageKg / 1000
}

// Summarize partitions rows into warmup and work sets and totals the work sets.
func Summarize(rows []models.SetRow) Summary {
	var sum Summary
	exercises := make(map[int64]struct{})

	for _, r := range rows {
		exercises[r.ExerciseID] = struct{}{}
		if r.IsWarmup {
			sum.WarmupSets++
			continue
		}
		sum.WorkSets++
		sum.TotalReps += r.Reps
		sum.TonnageKg += r.Load()
	}
	sum.Exercises = len(exercises)
	return sum
}

// ExerciseGroup is the run of rows of one exercise.
type ExerciseGroup struct {
	ExerciseID   int64           `json:"exercise_id"`
	ExerciseName string          `json:"exercise_name"`
	Unit         string          `json:"unit"`
	Sets         []models.SetRow `json:"sets"`
}

// GroupByExercise groups rows by exercise, keeping the order in which each
// exercise first appears.
func GroupByExercise(rows []models.SetRow) []ExerciseGroup {
	var groups []ExerciseGroup
	pos := make(map[int64]int)

	for _, r := range rows {
		i, ok := pos[r.ExerciseID]
		if !ok {
			i = len(groups)
			pos[r.ExerciseID] = i
			groups = append(groups, ExerciseGroup{
				ExerciseID:   r.ExerciseID,
				ExerciseName: r.ExerciseName,
				Unit:         r.Unit,
			})
		}
		groups[i].Sets = append(groups[i].Sets, r)
	}
	return groups
}

// Streak holds runs of calendar-consecutive training days.
type Streak struct {
	Longest int `json:"longest"`
	Current int `json:"current"`
}

// ComputeStreak scans session dates for runs of consecutive days. Current is
// the run ending today and is zero unless the latest date is today. Dates
// may be unsorted and repeated.
func ComputeStreak(dates []string, today time.Time) (Streak, error) {
	days := make([]time.Time, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		t, err := models.ParseDate(d)
		if err != nil {
			return Streak{}, fmt.Errorf("compute streak: %w", err)
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return Streak{}, nil
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var s Streak
	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if dayDiff(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	if models.FormatDate(days[len(days)-1]) == models.FormatDate(today) {
		s.Current = run
	}
	return s, nil
}

// dayDiff counts calendar days from a to b. Both are UTC midnights.
func dayDiff(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// MonthMarks turns session dates into a lookup set for a calendar widget.
func MonthMarks(dates []string) map[string]bool {
	marks := make(map[string]bool, len(dates))
	for _, d := range dates {
		marks[d] = true
	}
	return marks
}
