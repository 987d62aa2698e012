// ABOUTME: CLI commands for training sessions.
// ABOUTME: Shows a day's sets and totals, edits notes and start/end times.
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
)

var (
	sessionDate  string
	sessionAt    string
	sessionMonth string
	sessionPart  string
	sessionLimit int
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Show and edit training sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show a session's sets grouped by exercise",
	Long: `Show the session of a date (default today): every set grouped by
exercise in set order, the work-set totals and any attachments.
Warmup sets are marked W and excluded from the totals.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := sessionDate
		if len(args) == 1 {
			arg = args[0]
		}
		date, err := dateOrToday(arg)
		if err != nil {
			return err
		}
		return showSession(cmd.Context(), cmd.OutOrStdout(), date)
	},
}

func showSession(ctx context.Context, out io.Writer, date string) error {
	id, found, err := repo.FindSessionID(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}
	if !found {
		fmt.Fprintf(out, "No session on %s.\n", date)
		return nil
	}

	sess, err := repo.GetSession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	rows, err := repo.ListSetsBySession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list sets: %w", err)
	}

	bold.Fprintf(out, "%s", date)
	if sess.StartAt != nil {
		fmt.Fprintf(out, "  %s", faint.Sprint(sess.StartAt.Local().Format("15:04")))
		if sess.EndAt != nil {
			fmt.Fprintf(out, "%s", faint.Sprintf("-%s (%s)",
				sess.EndAt.Local().Format("15:04"), sess.EndAt.Sub(*sess.StartAt).Round(time.Minute)))
		}
	}
	fmt.Fprintln(out)
	if sess.Note != "" {
		fmt.Fprintf(out, "  %s\n", faint.Sprint(sess.Note))
	}

	for _, g := range stats.GroupByExercise(rows) {
		fmt.Fprintf(out, "\n  %s\n", bold.Sprint(g.ExerciseName))
		for _, r := range g.Sets {
			mark := " "
			if r.IsWarmup {
				mark = "W"
			}
			fmt.Fprintf(out, "  %s %s %s %s x %d\n",
				faint.Sprintf("%4d", r.ID), mark, faint.Sprintf("#%d", r.SetIndex),
				formatWeight(r.WeightKg)+" "+r.Unit, r.Reps)
		}
	}

	if len(rows) > 0 {
		fmt.Fprintf(out, "\n  %s\n", formatSummary(stats.Summarize(rows)))
	}

	media, err := repo.ListSessionMedia(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list media: %w", err)
	}
	if len(media) > 0 {
		fmt.Fprintf(out, "  %s\n", faint.Sprintf("%d attachment(s)", len(media)))
	}
	return nil
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions with cached totals",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := repo.ListSessions(cmd.Context(), sessionLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(out, "%s %3d sets %5s reps %10s kg  %s\n",
				s.Date, s.TotalSets, humanize.Comma(int64(s.TotalReps)),
				humanize.FormatFloat("#,###.#", s.TotalLoadKg),
				faint.Sprint(truncate(s.Note, 40)))
		}
		return nil
	},
}

var sessionNoteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Replace a session's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, err := dateOrToday(sessionDate)
		if err != nil {
			return err
		}
		id, err := repo.GetOrCreateSession(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		if err := repo.UpdateSessionNote(ctx, id, args[0]); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Updated note for %s\n", date)
		return nil
	},
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Record when a session started (default now)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stampSession(cmd, true)
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:     "finish",
	Aliases: []string{"end"},
	Short:   "Record when a session ended (default now)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stampSession(cmd, false)
	},
}

// stampSession sets one of the session times, keeping the other.
func stampSession(cmd *cobra.Command, start bool) error {
	ctx := cmd.Context()
	date, err := dateOrToday(sessionDate)
	if err != nil {
		return err
	}

	at := time.Now()
	if sessionAt != "" {
		if at, err = parseTime(date, sessionAt); err != nil {
			return err
		}
	}

	id, err := repo.GetOrCreateSession(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	sess, err := repo.GetSession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	startAt, endAt := sess.StartAt, sess.EndAt
	label := "Finished"
	if start {
		startAt = &at
		label = "Started"
	} else {
		endAt = &at
	}
	if err := repo.UpdateSessionTimes(ctx, id, startAt, endAt); err != nil {
		return fmt.Errorf("failed to update times: %w", err)
	}
	green.Fprintf(cmd.OutOrStdout(), "✓ %s %s at %s\n", label, date, at.Format("15:04"))
	return nil
}

var sessionDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List dates with a session in a month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, dates, err := monthDates(cmd.Context(), sessionMonth, sessionPart)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(dates) == 0 {
			fmt.Fprintf(out, "No sessions in %s.\n", month)
			return nil
		}
		for _, d := range dates {
			fmt.Fprintln(out, d)
		}
		return nil
	},
}

// monthDates lists session dates of a month (default current), optionally
// only those that trained the named body part.
func monthDates(ctx context.Context, month, part string) (string, []string, error) {
	if month == "" {
		month = time.Now().Format(models.YearMonthLayout)
	} else if _, err := models.ParseYearMonth(month); err != nil {
		return "", nil, err
	}

	var dates []string
	var err error
	if part == "" {
		dates, err = repo.ListSessionDatesInMonth(ctx, month)
	} else {
		var partID *int64
		if partID, err = resolveBodyPart(ctx, part); err != nil {
			return "", nil, err
		}
		dates, err = repo.ListSessionDatesInMonthByBodyPart(ctx, month, *partID)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to list session dates: %w", err)
	}
	return month, dates, nil
}

func init() {
	sessionCmd.PersistentFlags().StringVarP(&sessionDate, "date", "d", "", "session date YYYY-MM-DD (default: today)")
	sessionStartCmd.Flags().StringVar(&sessionAt, "at", "", "time (HH:MM, YYYY-MM-DD HH:MM or RFC3339)")
	sessionFinishCmd.Flags().StringVar(&sessionAt, "at", "", "time (HH:MM, YYYY-MM-DD HH:MM or RFC3339)")
	sessionDatesCmd.Flags().StringVarP(&sessionMonth, "month", "m", "", "month YYYY-MM (default: current)")
	sessionDatesCmd.Flags().StringVarP(&sessionPart, "part", "p", "", "only sessions training this body part")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of sessions")

	sessionCmd.AddCommand(sessionShowCmd, sessionListCmd, sessionNoteCmd,
		sessionStartCmd, sessionFinishCmd, sessionDatesCmd)
	rootCmd.AddCommand(sessionCmd)
}
