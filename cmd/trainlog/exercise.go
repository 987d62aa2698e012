// ABOUTME: CLI commands for exercises.
// ABOUTME: List by body part, add user exercises, delete or archive.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/models"
)

var (
	exercisePart     string
	exerciseAll      bool
	exerciseArchived bool
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises",
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Long: `List exercises of a body part. Without --part, lists exercises that
have no body part. Use --all for every exercise.

EXAMPLES:

  trainlog exercise list --part 胸     # Chest exercises
  trainlog exercise list               # Uncategorized exercises
  trainlog exercise list --all -a      # Everything, archived included`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var list []*models.Exercise
		var err error
		switch {
		case exerciseAll:
			list, err = repo.ListAllExercises(ctx, exerciseArchived)
		default:
			var partID *int64
			if partID, err = resolveBodyPart(ctx, exercisePart); err != nil {
				return err
			}
			if exerciseArchived {
				list, err = repo.ListExercisesForPart(ctx, partID)
			} else {
				list, err = repo.ListExercisesByBodyPart(ctx, partID)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}
		for _, ex := range list {
			flags := ""
			if ex.IsArchived {
				flags = faint.Sprint(" (archived)")
			}
			fmt.Fprintf(out, "%s %s %s%s\n",
				faint.Sprintf("%4d", ex.ID), padRight(ex.Name, 24), faint.Sprint(ex.Unit), flags)
		}
		return nil
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		partID, err := resolveBodyPart(ctx, exercisePart)
		if err != nil {
			return err
		}
		id, err := repo.InsertExercise(ctx, args[0], partID)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Added exercise %s (ID: %d)\n", args[0], id)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete an exercise",
	Long: `Delete an exercise. An exercise that already has logged sets is archived
instead: it disappears from pickers but its history and records stay.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ex, err := resolveExercise(ctx, args[0])
		if err != nil {
			return err
		}
		res, err := repo.DeleteExercise(ctx, ex.ID)
		if err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		if res.Archived() {
			green.Fprintf(cmd.OutOrStdout(), "✓ Archived %s (it has logged sets)\n", ex.Name)
			return nil
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", ex.Name)
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exercisePart, "part", "p", "", "body part name")
	exerciseListCmd.Flags().BoolVar(&exerciseAll, "all", false, "list exercises of every body part")
	exerciseListCmd.Flags().BoolVarP(&exerciseArchived, "archived", "a", false, "include archived exercises")
	exerciseAddCmd.Flags().StringVarP(&exercisePart, "part", "p", "", "body part name")

	exerciseCmd.AddCommand(exerciseListCmd, exerciseAddCmd, exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
