// ABOUTME: CLI commands for exporting and importing training data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/models"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export, sessions keyed by date (human-readable)
  markdown   One table per session (for notes/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only)

EXAMPLES:

  trainlog export json                         # Export all data as JSON
  trainlog export json -o backup.json          # Save to file
  trainlog export yaml                         # Export as YAML
  trainlog export markdown --since 2024-01-01  # Sessions from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = repo.ExportJSON(ctx)
		case "yaml":
			data, err = repo.ExportYAML(ctx)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := models.ParseDate(exportSince)
				if perr != nil {
					return perr
				}
				since = &t
			}
			var md string
			md, err = repo.ExportMarkdown(ctx, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			green.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import training data from JSON",
	Long: `Import training data from a JSON backup file.

Sessions are matched by date and exercises by name; missing body parts and
exercises are created. Sets are appended after any sets already logged, so
importing the same file twice duplicates its sets.

EXAMPLES:

  trainlog import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := repo.ImportJSON(cmd.Context(), data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Imported from %s\n", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
