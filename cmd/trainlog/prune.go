// ABOUTME: CLI command for removing blank sets and empty sessions.
// ABOUTME: Runs the zero-set prune followed by the empty-session prune.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pruneDate string
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove blank sets and empty sessions",
	Long: `Remove sets that were added but never filled in (0 kg x 0 reps) and
renumber what is left, then remove sessions with no sets, no attachments
and no note.

With --date only that session's blank sets are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		var scope *int64
		if pruneDate != "" {
			id, found, err := repo.FindSessionID(ctx, pruneDate)
			if err != nil {
				return fmt.Errorf("failed to find session: %w", err)
			}
			if !found {
				fmt.Fprintf(out, "No session on %s.\n", pruneDate)
				return nil
			}
			scope = &id
		}

		sets, err := repo.PruneZeroSets(ctx, scope)
		if err != nil {
			return fmt.Errorf("failed to prune sets: %w", err)
		}
		sessions, err := repo.PruneEmptySessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to prune sessions: %w", err)
		}
		green.Fprintf(out, "✓ Removed %d blank set(s) and %d empty session(s)\n", sets, sessions)
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVarP(&pruneDate, "date", "d", "", "only prune this session's sets")
	rootCmd.AddCommand(pruneCmd)
}
