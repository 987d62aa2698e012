// ABOUTME: Root Cobra command for trainlog CLI.
// ABOUTME: Loads config, sets up logging and owns the store via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/trainlog/internal/config"
	"github.com/harperreed/trainlog/internal/logging"
	"github.com/harperreed/trainlog/internal/storage"
)

var (
	dbPath     string
	configPath string

	cfg       *config.Config
	repo      *storage.DB
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "trainlog",
	Short: "Local strength-training log",
	Long: `Trainlog keeps a local log of strength-training sessions.

A session is one calendar day. Each session holds sets of exercises
(weight x reps), an optional note, start/end times and attached photos
or videos. Exercises are grouped by body part.

QUICK START:

  $ trainlog set add ベンチプレス 60 10          # Log a set for today
  $ trainlog set add ベンチプレス 80 8           # Next set, index 2
  $ trainlog set add ベンチプレス 40 12 --warmup # Warmups don't count in totals
  $ trainlog session show                         # Today's sets and totals
  $ trainlog records                              # Personal records
  $ trainlog calendar                             # This month at a glance

TAXONOMY:

  $ trainlog part list                  # Body parts in display order
  $ trainlog exercise list --part 胸    # Exercises of a body part
  $ trainlog exercise add "ケーブルクロス" --part 胸

MCP INTEGRATION:

  Run 'trainlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "trainlog": { "command": "trainlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite database at ~/.local/share/trainlog/trainlog.db, attachments
  under ~/.local/share/trainlog/media/. Override with --db or the
  data_dir setting in ~/.config/trainlog/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipStorage(cmd) {
			return nil
		}
		// PostRunE is skipped when RunE fails.
		_ = closeAll()

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logCloser = logging.Setup(cfg.LoggerParams())

		repo, err = cfg.OpenStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logrus.WithField("path", repo.Path()).Debug("database opened")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeAll()
	},
}

// skipStorage reports whether cmd runs without the database.
func skipStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "install-skill", "completion":
		return true
	}
	return false
}

func closeAll() error {
	var err error
	if repo != nil {
		err = multierr.Append(err, repo.Close())
		repo = nil
	}
	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
		logCloser = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: <data_dir>/trainlog.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/trainlog/config.json)")
}
