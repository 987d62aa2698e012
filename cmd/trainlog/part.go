// ABOUTME: CLI commands for body parts.
// ABOUTME: List, add and delete the muscle-group categories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var partCmd = &cobra.Command{
	Use:     "part",
	Aliases: []string{"parts", "bodypart"},
	Short:   "Manage body parts",
}

var partListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List body parts in display order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := repo.ListBodyParts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list body parts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(parts) == 0 {
			fmt.Fprintln(out, "No body parts.")
			return nil
		}
		for _, bp := range parts {
			fmt.Fprintf(out, "%s %s\n", faint.Sprintf("%4d", bp.ID), bp.Name)
		}
		return nil
	},
}

var partAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a body part at the end of the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := repo.InsertBodyPart(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to add body part: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Added body part %s (ID: %d)\n", args[0], id)
		return nil
	},
}

var partDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a body part",
	Long: `Delete a body part. Its exercises are kept and become uncategorized
(list them with 'trainlog exercise list' without --part).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteBodyPart(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete body part: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Deleted body part %d\n", id)
		return nil
	},
}

func init() {
	partCmd.AddCommand(partListCmd, partAddCmd, partDeleteCmd)
	rootCmd.AddCommand(partCmd)
}
