// ABOUTME: CLI commands for personal records and training streaks.
// ABOUTME: Read-only views over the whole log.
package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
)

var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"pr"},
	Short:   "Show personal records",
	Long: `Show the heaviest work set and the work set with the most reps.

Warmup sets, archived exercises and blank 0 kg x 0 sets never count.
Ties on weight go to the set with more reps, then to the earliest date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		maxWeight, err := repo.MaxWeightRecord(ctx)
		if err != nil {
			return fmt.Errorf("failed to get weight record: %w", err)
		}
		maxReps, err := repo.MaxRepsRecord(ctx)
		if err != nil {
			return fmt.Errorf("failed to get reps record: %w", err)
		}

		out := cmd.OutOrStdout()
		if maxWeight == nil && maxReps == nil {
			fmt.Fprintln(out, "No records yet.")
			return nil
		}
		printRecord(cmd, "Max weight", maxWeight)
		printRecord(cmd, "Max reps", maxReps)
		return nil
	},
}

func printRecord(cmd *cobra.Command, label string, r *models.Record) {
	if r == nil {
		return
	}
	when := r.Date
	if t, err := models.ParseDate(r.Date); err == nil {
		when = fmt.Sprintf("%s, %s", r.Date, humanize.Time(t))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s kg x %d  %s\n",
		bold.Sprint(padRight(label, 11)), padRight(r.ExerciseName, 20),
		formatWeight(r.WeightKg), r.Reps, faint.Sprint(when))
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show consecutive training days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dates, err := repo.ListAllSessionDates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list session dates: %w", err)
		}
		st, err := stats.ComputeStreak(dates, time.Now())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Current streak: %s\n", bold.Sprint(days(st.Current)))
		fmt.Fprintf(out, "Longest streak: %s\n", days(st.Longest))
		fmt.Fprintf(out, "%s\n", faint.Sprintf("%s sessions logged", humanize.Comma(int64(len(dates)))))
		return nil
	},
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func init() {
	rootCmd.AddCommand(recordsCmd, streakCmd)
}
