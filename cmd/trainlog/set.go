// ABOUTME: CLI commands for the set ledger.
// ABOUTME: Add, update, flag warmups, delete and insert sets at a position.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setDate   string
	setWarmup bool
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Log and edit sets",
	Long: `Log and edit sets. Sets of one exercise in one session are numbered
1, 2, 3... with no gaps; deleting or inserting renumbers the rest.`,
}

var setAddCmd = &cobra.Command{
	Use:     "add <exercise> <weight_kg> <reps>",
	Aliases: []string{"a"},
	Short:   "Append a set to a session",
	Long: `Append a set to the session of --date (default today). The exercise is
an id or a name.

EXAMPLES:

  trainlog set add ベンチプレス 80 8
  trainlog set add 1 40 12 --warmup
  trainlog set add スクワット 100 5 --date 2024-06-01`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ex, err := resolveExercise(ctx, args[0])
		if err != nil {
			return err
		}
		weight, err := parseWeight(args[1])
		if err != nil {
			return err
		}
		reps, err := parseReps(args[2])
		if err != nil {
			return err
		}
		date, err := dateOrToday(setDate)
		if err != nil {
			return err
		}

		sessionID, err := repo.GetOrCreateSession(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		id, err := repo.AppendSet(ctx, sessionID, ex.ID, weight, reps, setWarmup)
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}

		set, err := repo.GetSet(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read set: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Added %s set %d: %s kg x %d\n",
			ex.Name, set.SetIndex, formatWeight(weight), reps)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", faint.Sprintf("ID %d on %s", id, date))
		return nil
	},
}

var setUpdateCmd = &cobra.Command{
	Use:   "update <set_id> <weight_kg> <reps>",
	Short: "Change a set's weight and reps",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		weight, err := parseWeight(args[1])
		if err != nil {
			return err
		}
		reps, err := parseReps(args[2])
		if err != nil {
			return err
		}
		if err := repo.UpdateSet(cmd.Context(), id, weight, reps); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Updated set %d: %s kg x %d\n", id, formatWeight(weight), reps)
		return nil
	},
}

var setWarmupCmd = &cobra.Command{
	Use:   "warmup <set_id> <on|off>",
	Short: "Flag or unflag a set as warmup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var on bool
		switch args[1] {
		case "on", "true", "yes":
			on = true
		case "off", "false", "no":
		default:
			return fmt.Errorf("invalid value: %s (use on or off)", args[1])
		}
		if err := repo.UpdateSetWarmup(cmd.Context(), id, on); err != nil {
			return fmt.Errorf("failed to update warmup: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Set %d warmup %s\n", id, args[1])
		return nil
	},
}

var setDeleteCmd = &cobra.Command{
	Use:     "rm <set_id>",
	Aliases: []string{"delete"},
	Short:   "Delete a set and close the gap",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		deleted, err := repo.DeleteSet(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete set: %w", err)
		}
		sess, err := repo.GetSession(ctx, deleted.SessionID)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Deleted set %d (#%d, %s kg x %d)\n",
			id, deleted.SetIndex, formatWeight(deleted.WeightKg), deleted.Reps)
		restore := fmt.Sprintf("trainlog set insert %d %d %s %d --date %s",
			deleted.ExerciseID, deleted.SetIndex, formatWeight(deleted.WeightKg), deleted.Reps, sess.Date)
		if deleted.IsWarmup {
			restore += " --warmup"
		}
		fmt.Fprintf(out, "  %s\n", faint.Sprint("restore with: "+restore))
		return nil
	},
}

var setInsertCmd = &cobra.Command{
	Use:   "insert <exercise> <index> <weight_kg> <reps>",
	Short: "Insert a set at a position, shifting later sets",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ex, err := resolveExercise(ctx, args[0])
		if err != nil {
			return err
		}
		index, err := parseReps(args[1])
		if err != nil {
			return fmt.Errorf("invalid index: %s", args[1])
		}
		weight, err := parseWeight(args[2])
		if err != nil {
			return err
		}
		reps, err := parseReps(args[3])
		if err != nil {
			return err
		}
		date, err := dateOrToday(setDate)
		if err != nil {
			return err
		}

		sessionID, err := repo.GetOrCreateSession(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		id, err := repo.InsertSetAtIndex(ctx, sessionID, ex.ID, index, weight, reps, setWarmup)
		if err != nil {
			return fmt.Errorf("failed to insert set: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Inserted %s set %d: %s kg x %d (ID: %d)\n",
			ex.Name, index, formatWeight(weight), reps, id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{setAddCmd, setInsertCmd} {
		c.Flags().StringVarP(&setDate, "date", "d", "", "session date YYYY-MM-DD (default: today)")
		c.Flags().BoolVarP(&setWarmup, "warmup", "w", false, "mark as a warmup set")
	}

	setCmd.AddCommand(setAddCmd, setUpdateCmd, setWarmupCmd, setDeleteCmd, setInsertCmd)
	rootCmd.AddCommand(setCmd)
}
