// ABOUTME: CLI command for merging another trainlog database into this one.
// ABOUTME: Replays sessions, sets and media through the storage export envelope.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/config"
	"github.com/harperreed/trainlog/internal/storage"
)

var (
	migrateFrom   string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate --from <source.db>",
	Short: "Merge another trainlog database into this one",
	Long: `Copy every session of another trainlog database into the current one.

Body parts and exercises are matched by name, so the default taxonomy is
not duplicated. Sessions already present by date get the source sets
appended after their own.

USAGE:

  trainlog migrate --from ~/old/trainlog.db --dry-run   # Preview
  trainlog migrate --from ~/old/trainlog.db             # Merge`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		src := config.ExpandPath(migrateFrom)
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("source database: %w", err)
		}
		if src == repo.Path() {
			return fmt.Errorf("source and destination are the same database")
		}

		srcDB, err := storage.Open(src)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer srcDB.Close()

		if migrateDryRun {
			data, err := srcDB.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			sets := 0
			for _, s := range data.Sessions {
				sets += len(s.Sets)
			}
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintf(out, "Would migrate %d session(s) with %d set(s) from %s\n",
				len(data.Sessions), sets, src)
			return nil
		}

		summary, err := storage.MigrateData(ctx, srcDB, repo)
		if err != nil {
			return err
		}
		green.Fprintf(out, "✓ Migrated %d session(s), %d set(s), %d attachment(s)\n",
			summary.Sessions, summary.Sets, summary.Media)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source database path")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(migrateCmd)
}
