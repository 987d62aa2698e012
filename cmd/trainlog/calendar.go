// ABOUTME: CLI calendar view of a month's training days.
// ABOUTME: Marks days with a session, optionally filtered by body part.
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/stats"
)

var (
	calendarPart string
)

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month with training days marked",
	Long: `Show a month grid (Monday first) where days with a session are
highlighted. With --part, only days that trained that body part are marked.

EXAMPLES:

  trainlog calendar                # This month
  trainlog calendar 2024-06        # June 2024
  trainlog calendar --part 脚      # Leg days this month`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) == 1 {
			month = args[0]
		}
		month, dates, err := monthDates(cmd.Context(), month, calendarPart)
		if err != nil {
			return err
		}
		first, err := models.ParseYearMonth(month)
		if err != nil {
			return err
		}
		renderMonth(cmd.OutOrStdout(), first, stats.MonthMarks(dates), models.Today())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", faint.Sprintf("%d training day(s)", len(dates)))
		return nil
	},
}

// renderMonth prints a Monday-first grid for the month starting at first.
func renderMonth(out io.Writer, first time.Time, marks map[string]bool, today string) {
	fmt.Fprintf(out, "%s\n", bold.Sprint(first.Format("January 2006")))
	fmt.Fprintln(out, "Mo Tu We Th Fr Sa Su")

	offset := (int(first.Weekday()) + 6) % 7
	for i := 0; i < offset; i++ {
		fmt.Fprint(out, "   ")
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := models.FormatDate(d)
		cell := fmt.Sprintf("%2d", d.Day())
		switch {
		case marks[key]:
			cell = green.Sprint(cell)
		case key == today:
			cell = bold.Sprint(cell)
		}
		fmt.Fprint(out, cell)

		if d.Weekday() == time.Sunday {
			fmt.Fprintln(out)
		} else {
			fmt.Fprint(out, " ")
		}
	}
	fmt.Fprintln(out)
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarPart, "part", "p", "", "only days training this body part")
	rootCmd.AddCommand(calendarCmd)
}
