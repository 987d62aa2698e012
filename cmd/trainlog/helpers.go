// ABOUTME: Shared helpers for trainlog commands.
// ABOUTME: Argument parsing, name resolution and output formatting.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
)

var (
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	bold  = color.New(color.Bold)
)

// dateOrToday validates a YYYY-MM-DD flag value, defaulting to today.
func dateOrToday(date string) (string, error) {
	if date == "" {
		return models.Today(), nil
	}
	if _, err := models.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// parseTime accepts RFC3339, "YYYY-MM-DD HH:MM", or HH:MM on the given date.
func parseTime(date, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time: %s", value)
	}
	return t, nil
}

func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight: %s", s)
	}
	return w, nil
}

func parseReps(s string) (int, error) {
	r, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid reps: %s", s)
	}
	return r, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// resolveBodyPart maps a body part name to its id. An empty name means
// uncategorized and yields nil.
func resolveBodyPart(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	bp, found, err := repo.FindBodyPartByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find body part: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("unknown body part: %s", name)
	}
	return &bp.ID, nil
}

// resolveExercise accepts an exercise id or name.
func resolveExercise(ctx context.Context, arg string) (*models.Exercise, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		ex, err := repo.GetExercise(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get exercise: %w", err)
		}
		return ex, nil
	}

	ex, found, err := repo.FindExerciseByName(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("unknown exercise: %s", arg)
	}
	return ex, nil
}

func formatWeight(kg float64) string {
	return humanize.FtoaWithDigits(kg, 2)
}

func formatSummary(sum stats.Summary) string {
	s := fmt.Sprintf("%d exercises, %d sets, %s reps, %s",
		sum.Exercises, sum.WorkSets, humanize.Comma(int64(sum.TotalReps)), formatTonnage(sum))
	if sum.WarmupSets > 0 {
		s += fmt.Sprintf(" (+%d warmup)", sum.WarmupSets)
	}
	return s
}

func formatTonnage(sum stats.Summary) string {
	if sum.TonnageKg >= 1000 {
		return humanize.FormatFloat("#,###.##", sum.TonnageTons()) + " t"
	}
	return humanize.FormatFloat("#,###.#", sum.TonnageKg) + " kg"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
