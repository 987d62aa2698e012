// ABOUTME: CLI commands for session attachments.
// ABOUTME: Attach photos or videos to a session, list and remove them.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/media"
)

var (
	mediaDate     string
	mediaThumb    string
	mediaDuration float64
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage session photos and videos",
}

func library() *media.Library {
	return media.NewLibrary(repo, cfg.MediaDir())
}

var mediaAttachCmd = &cobra.Command{
	Use:   "attach <file>",
	Short: "Attach an image or video to a session",
	Long: `Attach an image or video to the session of --date (default today).
The file is copied into the data directory; the original is left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, err := dateOrToday(mediaDate)
		if err != nil {
			return err
		}
		sessionID, err := repo.GetOrCreateSession(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}

		m, err := library().Attach(ctx, sessionID, args[0], media.AttachOptions{
			ThumbPath:   mediaThumb,
			DurationSec: mediaDuration,
		})
		if err != nil {
			return fmt.Errorf("failed to attach: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Attached %s to %s (ID: %d)\n", m.Type, date, m.ID)
		return nil
	},
}

var mediaListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a session's attachments",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, err := dateOrToday(mediaDate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		id, found, err := repo.FindSessionID(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to find session: %w", err)
		}
		if !found {
			fmt.Fprintf(out, "No session on %s.\n", date)
			return nil
		}
		list, err := repo.ListSessionMedia(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list media: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No attachments.")
			return nil
		}
		for _, m := range list {
			detail := ""
			if m.Width != nil && m.Height != nil {
				detail = fmt.Sprintf(" %dx%d", *m.Width, *m.Height)
			}
			if m.DurationSec != nil {
				detail += fmt.Sprintf(" %.0fs", *m.DurationSec)
			}
			fmt.Fprintf(out, "%s %-5s %s%s %s\n",
				faint.Sprintf("%4d", m.ID), m.Type, m.URI, detail,
				faint.Sprint(humanize.Time(m.CreatedAt)))
		}
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove an attachment and its copied files",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := library().Remove(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove media: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Removed attachment %d\n", id)
		return nil
	},
}

func init() {
	mediaCmd.PersistentFlags().StringVarP(&mediaDate, "date", "d", "", "session date YYYY-MM-DD (default: today)")
	mediaAttachCmd.Flags().StringVar(&mediaThumb, "thumb", "", "thumbnail image to copy alongside")
	mediaAttachCmd.Flags().Float64Var(&mediaDuration, "duration", 0, "video length in seconds")

	mediaCmd.AddCommand(mediaAttachCmd, mediaListCmd, mediaDeleteCmd)
	rootCmd.AddCommand(mediaCmd)
}
