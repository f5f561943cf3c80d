package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/work-calendar/internal/calendar"
	"github.com/username/work-calendar/pkg/dateutil"
)

// dateArg parses the optional date argument, defaulting to today
func dateArg(args []string) (calendar.Date, error) {
	if len(args) == 0 {
		return calendar.DateOf(dateutil.Today()), nil
	}
	return calendar.ParseDateInput(args[0])
}

func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format, a...)
}

func printDates(w io.Writer, dates []calendar.Date) {
	for _, s := range calendar.FormatDates(dates, formatFlag) {
		fmt.Fprintln(w, s)
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show how a date is classified",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			weekend, err := weekendDays()
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			info, err := cal.DayInfo(cmd.Context(), d, weekend...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printf(w, "%s  %s  %dh", info.Date.Format(formatFlag), info.Kind, info.WorkingHours)
			if info.Note != "" {
				printf(w, "  %s", info.Note)
			}
			printf(w, "\n")
			if info.MovedFrom != nil {
				printf(w, "  weekend moved from %s\n", info.MovedFrom.Format(formatFlag))
			}
			if info.MovedTo != nil {
				printf(w, "  weekend moved to %s\n", info.MovedTo.Format(formatFlag))
			}
			return nil
		},
	}
}

func nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next [date]",
		Short: "Show the first working day after a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			weekend, err := weekendDays()
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			next, err := cal.NextWorkingDay(cmd.Context(), d, weekend...)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", next.Format(formatFlag))
			return nil
		},
	}
}

func weekendsCmd() *cobra.Command {
	var noBackward bool

	cmd := &cobra.Command{
		Use:   "weekends [date]",
		Short: "List the run of consecutive non-working days around a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			weekend, err := weekendDays()
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			run, err := cal.WeekendRun(cmd.Context(), d, !noBackward, weekend...)
			if err != nil {
				return err
			}
			printDates(cmd.OutOrStdout(), run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBackward, "no-backward", false, "Only list the days after the date")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var noBackward bool

	cmd := &cobra.Command{
		Use:   "holidays [date]",
		Short: "List the run of consecutive public holidays around a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			run, err := cal.HolidayRun(cmd.Context(), d, !noBackward)
			if err != nil {
				return err
			}
			printDates(cmd.OutOrStdout(), run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBackward, "no-backward", false, "Only list the days after the date")

	return cmd
}

func movedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moved [date]",
		Short: "Show where a weekend was moved from or to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			from, fromOK, err := cal.WeekendMovedFrom(cmd.Context(), d)
			if err != nil {
				return err
			}
			to, toOK, err := cal.WeekendMovedTo(cmd.Context(), d)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if fromOK {
				printf(w, "moved from %s\n", from.Format(formatFlag))
			}
			if toOK {
				printf(w, "moved to %s\n", to.Format(formatFlag))
			}
			if !fromOK && !toOK {
				printf(w, "not moved\n")
			}
			return nil
		},
	}
}

// parseMonth accepts 2006-01 or 01.2006, defaulting to the current month
func parseMonth(args []string) (int, time.Month, error) {
	if len(args) == 0 {
		today := dateutil.Today()
		return today.Year(), today.Month(), nil
	}
	for _, layout := range []string{"2006-01", "01.2006"} {
		if t, err := time.Parse(layout, args[0]); err == nil {
			return t.Year(), t.Month(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: month %q, want YYYY-MM", calendar.ErrInvalidDate, args[0])
}

func monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the working-time summary of a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args)
			if err != nil {
				return err
			}
			weekend, err := weekendDays()
			if err != nil {
				return err
			}
			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			info, err := cal.MonthInfo(cmd.Context(), year, month, weekend...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printf(w, "%s %d\n", info.Month, info.Year)
			fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
			printf(w, "  Working days:   %d (%d short)\n", info.WorkDays, info.ShortDays)
			printf(w, "  Working hours:  %dh\n", info.WorkingHours)
			printf(w, "  Weekends:       %d\n", info.Weekends)
			printf(w, "  Holidays:       %d\n", info.Holidays)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "  Date         | Kind      | Hours | Note")
			fmt.Fprintln(w, "---------------+-----------+-------+----------------")
			for _, day := range info.Days {
				note := day.Note
				if day.MovedFrom != nil {
					note = "moved from " + day.MovedFrom.Format(formatFlag)
				}
				printf(w, "  %-12s | %-9s | %4dh | %s\n",
					day.Date.Format(formatFlag), day.Kind, day.WorkingHours, note)
			}
			return nil
		},
	}
}

func prefetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch [year...]",
		Short: "Load years into the cache (default: current and next year)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var years []int
			for _, arg := range args {
				year, err := strconv.Atoi(arg)
				if err != nil || year <= 0 {
					return fmt.Errorf("%w: year %q", calendar.ErrInvalidDate, arg)
				}
				years = append(years, year)
			}
			if len(years) == 0 {
				current := dateutil.Today().Year()
				years = []int{current, current + 1}
			}

			cal, err := newWorkCalendar()
			if err != nil {
				return err
			}

			loaded := make([]*calendar.YearCalendar, len(years))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, year := range years {
				i, year := i, year
				g.Go(func() error {
					yc, err := cal.Year(ctx, year)
					if err != nil {
						return fmt.Errorf("failed to load %d: %w", year, err)
					}
					loaded[i] = yc
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, yc := range loaded {
				printf(w, "%d: %d published days, %d holidays\n", yc.Year, len(yc.Days), len(yc.Holidays))
			}

			logger.Info("Prefetch completed",
				zap.Ints("years", years),
				zap.String("cache_folder", cal.CacheFolder()),
				zap.String("source", cal.SourceURL()))
			return nil
		},
	}
}
