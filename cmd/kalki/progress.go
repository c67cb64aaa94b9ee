package kalki

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/progress"
	"github.com/saadjs/kalki/internal/service"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Daily totals, streaks and monthly progress against your goals",
}

// newTracker builds a tracker over the stored food log and refreshes it once.
func newTracker(ctx context.Context, sqldb *sql.DB) (*progress.Tracker, *service.FoodLog, error) {
	foods, err := service.NewFoodLog(sqldb)
	if err != nil {
		return nil, nil, err
	}
	tracker := progress.NewTracker(foods, service.GoalStore{DB: sqldb}, service.PlaceholderExercise{}, progress.Options{
		RetentionDays:      cfg.Progress.RetentionDays,
		MinRefreshInterval: cfg.Progress.MinRefreshInterval,
		RefreshInterval:    cfg.Progress.RefreshInterval,
		Logger:             slog.Default(),
	})
	if _, err := tracker.Refresh(ctx, true); err != nil {
		return nil, nil, fmt.Errorf("refresh progress: %w", err)
	}
	return tracker, foods, nil
}

func withTracker(cmd *cobra.Command, run func(*progress.Tracker) error) error {
	return withDB(func(sqldb *sql.DB) error {
		tracker, _, err := newTracker(cmd.Context(), sqldb)
		if err != nil {
			return err
		}
		return run(tracker)
	})
}

var (
	progressDate string
	progressJSON bool
)

type dayReport struct {
	Date           string                `json:"date"`
	Tracked        bool                  `json:"tracked"`
	Calories       float64               `json:"calories"`
	CalorieGoal    float64               `json:"calorie_goal"`
	GoalMet        bool                  `json:"goal_met"`
	Protein        float64               `json:"protein_g"`
	ProteinGoal    float64               `json:"protein_goal"`
	ProteinGoalMet bool                  `json:"protein_goal_met"`
	Exercise       model.ExerciseSummary `json:"exercise"`
	InStreak       bool                  `json:"in_streak"`
	CurrentStreak  int                   `json:"current_streak"`
}

var progressDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show totals for one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateOrToday(progressDate)
		if err != nil {
			return err
		}
		return withTracker(cmd, func(tr *progress.Tracker) error {
			now := time.Now()
			snap := tr.Snapshot()
			agg, tracked := snap.Days.Get(day)
			if !tracked {
				agg = model.DailyAggregate{Day: progress.Day(day), Exercise: progress.PlaceholderSummary(snap.Goals)}
			}
			r := dayReport{
				Date:           progress.Key(day),
				Tracked:        tracked,
				Calories:       agg.TotalCalories,
				CalorieGoal:    snap.Goals.Calories,
				GoalMet:        tracked && progress.IsGoalMet(agg, snap.Goals.Calories),
				Protein:        agg.TotalProtein,
				ProteinGoal:    snap.Goals.Protein,
				ProteinGoalMet: tracked && progress.IsProteinGoalMet(agg, snap.Goals.Protein),
				Exercise:       agg.Exercise,
				InStreak:       tr.IsPartOfStreak(day, now),
				CurrentStreak:  tr.CurrentStreak(now),
			}
			if progressJSON {
				return printJSON(cmd.OutOrStdout(), r)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", r.Date)
			if !r.Tracked {
				fmt.Fprintln(out, "No foods logged")
			}
			fmt.Fprintf(out, "Calories: %.0f / %.0f kcal (goal met: %s)\n", r.Calories, r.CalorieGoal, yesNo(r.GoalMet))
			fmt.Fprintf(out, "Protein: %.1f / %.0f g (goal met: %s)\n", r.Protein, r.ProteinGoal, yesNo(r.ProteinGoalMet))
			fmt.Fprintf(out, "Active calories: %.0f / %.0f kcal\n", r.Exercise.ActiveCalories, r.Exercise.ActiveCalorieGoal)
			fmt.Fprintf(out, "Active minutes: %d / %d\n", r.Exercise.ActiveMinutes, r.Exercise.MinutesGoal)
			fmt.Fprintf(out, "Part of current streak: %s\n", yesNo(r.InStreak))
			fmt.Fprintf(out, "Current streak: %d days\n", r.CurrentStreak)
			return nil
		})
	},
}

var progressMonthArg string

var progressMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show goal-met and tracked days for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseMonthOrCurrent(progressMonthArg)
		if err != nil {
			return err
		}
		return withTracker(cmd, func(tr *progress.Tracker) error {
			stats := tr.MonthStats(month, time.Now())
			if progressJSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Month: %s\n", month.Format(monthLayout))
			fmt.Fprintf(out, "Successful days: %d\n", stats.SuccessfulDays)
			fmt.Fprintf(out, "Tracked days: %d\n", stats.TotalTrackedDays)
			fmt.Fprintf(out, "Longest streak: %d days\n", stats.LongestStreakInMonth)
			return nil
		})
	},
}

var progressStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current streak of days within the calorie goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(tr *progress.Tracker) error {
			now := time.Now()
			snap := tr.Snapshot()
			days := progress.StreakDays(snap.Days, snap.Goals.Calories, now)
			if progressJSON {
				keys := make([]string, 0, len(days))
				for _, d := range days {
					keys = append(keys, progress.Key(d))
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"current_streak": len(days), "days": keys})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current streak: %d days\n", len(days))
			if len(days) > 0 {
				fmt.Fprintf(out, "Since: %s\n", progress.Key(days[len(days)-1]))
			}
			return nil
		})
	},
}

var progressCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar marking tracked, goal-met and streak days",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseMonthOrCurrent(progressMonthArg)
		if err != nil {
			return err
		}
		return withTracker(cmd, func(tr *progress.Tracker) error {
			writeCalendar(cmd.OutOrStdout(), tr, month, time.Now())
			return nil
		})
	},
}

// Calendar cell markers.
const (
	markStreak   = "*"
	markGoalMet  = "+"
	markOverGoal = "!"
	markNone     = " "
)

func writeCalendar(w io.Writer, tr *progress.Tracker, month, today time.Time) {
	snap := tr.Snapshot()
	first := progress.FirstOfMonth(month)
	last := first.AddDate(0, 1, -1)

	fmt.Fprintf(w, "%s\n", first.Format("January 2006"))
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	// Monday-first column of the 1st.
	offset := (int(first.Weekday()) + 6) % 7
	var line strings.Builder
	line.WriteString(strings.Repeat("    ", offset))
	col := offset
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		mark := markNone
		if agg, ok := snap.Days.Get(d); ok {
			switch {
			case tr.IsPartOfStreak(d, today):
				mark = markStreak
			case progress.IsGoalMet(agg, snap.Goals.Calories):
				mark = markGoalMet
			default:
				mark = markOverGoal
			}
		}
		fmt.Fprintf(&line, " %2d%s", d.Day(), mark)
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	stats := tr.MonthStats(first, today)
	fmt.Fprintf(w, "\n%s streak  %s goal met  %s over goal\n", markStreak, markGoalMet, markOverGoal)
	fmt.Fprintf(w, "Successful days: %d  Tracked days: %d  Longest streak: %d  Current streak: %d\n",
		stats.SuccessfulDays, stats.TotalTrackedDays, stats.LongestStreakInMonth, tr.CurrentStreak(today))
}

var (
	summaryWeek  string
	summaryMonth string
	summaryFrom  string
	summaryTo    string
)

var progressSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a week, month or date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := resolveSummaryRange()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			goals, err := service.LoadGoals(sqldb)
			if err != nil {
				return err
			}
			report, err := service.RangeReport(sqldb, from, to, goals)
			if err != nil {
				return err
			}
			if progressJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			writeSummary(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

func resolveSummaryRange() (time.Time, time.Time, error) {
	set := 0
	for _, v := range []string{summaryWeek, summaryMonth, summaryFrom + summaryTo} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set > 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("use only one of --week, --month or --from/--to")
	}
	switch {
	case summaryMonth != "":
		m, err := parseMonthOrCurrent(summaryMonth)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from, to := progress.MonthRange(m)
		return from, to, nil
	case summaryFrom != "" || summaryTo != "":
		if summaryFrom == "" || summaryTo == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from and --to are required together")
		}
		from, err := parseDateOrToday(summaryFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := parseDateOrToday(summaryTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to, nil
	default:
		day, err := parseDateOrToday(summaryWeek)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from, to := progress.WeekRange(day)
		return from, to, nil
	}
}

func writeSummary(w io.Writer, r *service.Report) {
	fmt.Fprintf(w, "Range: %s to %s\n", r.FromDate, r.ToDate)
	fmt.Fprintf(w, "Tracked days: %d\n", r.TrackedDays)
	fmt.Fprintf(w, "Within calorie goal: %d days\n", r.GoalMetDays)
	fmt.Fprintf(w, "Protein goal met: %d days\n", r.ProteinGoalMetDays)
	fmt.Fprintf(w, "Total calories: %.0f kcal\n", r.TotalCalories)
	fmt.Fprintf(w, "Average: %.0f kcal, %.1f g protein per tracked day\n", r.AverageCaloriesPerDay, r.AverageProteinPerDay)
	if r.HighestDay != nil && r.LowestDay != nil {
		fmt.Fprintf(w, "Highest day: %s (%.0f kcal)\n", r.HighestDay.Date, r.HighestDay.Calories)
		fmt.Fprintf(w, "Lowest day: %s (%.0f kcal)\n", r.LowestDay.Date, r.LowestDay.Calories)
	}
	if len(r.ByMeal) > 0 {
		fmt.Fprintln(w, "MEAL\tENTRIES\tKCAL\tP\tC\tF")
		for _, m := range r.ByMeal {
			fmt.Fprintf(w, "%s\t%d\t%.0f\t%.1f\t%.1f\t%.1f\n", m.Meal, m.Entries, m.Calories, m.Protein, m.Carbs, m.Fat)
		}
	}
}

var progressWatchFor time.Duration

var progressWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep today's progress on screen, updating as foods are logged",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if progressWatchFor > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, progressWatchFor)
			defer cancel()
		}
		return withDB(func(sqldb *sql.DB) error {
			return watchProgress(ctx, cmd.OutOrStdout(), sqldb)
		})
	},
}

// watchProgress runs the tracker until ctx ends. Writes from other kalki
// processes are picked up by reloading the food log on every refresh tick.
func watchProgress(ctx context.Context, w io.Writer, sqldb *sql.DB) error {
	tracker, foods, err := newTracker(ctx, sqldb)
	if err != nil {
		return err
	}
	updates, unsubscribe := tracker.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()

	reload := time.NewTicker(cfg.Progress.MinRefreshInterval)
	defer reload.Stop()

	show := func() {
		now := time.Now()
		snap := tracker.Snapshot()
		agg, _ := snap.Days.Get(now)
		fmt.Fprintf(w, "%s  %.0f/%.0f kcal  %.0f/%.0f g protein  streak %d\n",
			now.Format(dateTimeLayout), agg.TotalCalories, snap.Goals.Calories,
			agg.TotalProtein, snap.Goals.Protein, tracker.CurrentStreak(now))
	}
	show()
	for {
		select {
		case <-ctx.Done():
			return <-done
		case <-updates:
			show()
		case <-reload.C:
			if _, err := foods.Reload(); err != nil {
				slog.Warn("reload food log", slog.String("error", err.Error()))
			}
		}
	}
}

func init() {
	progressCmd.PersistentFlags().BoolVar(&progressJSON, "json", false, "Output JSON")
	progressDayCmd.Flags().StringVar(&progressDate, "date", "", "Day (YYYY-MM-DD, default today)")
	progressMonthCmd.Flags().StringVar(&progressMonthArg, "month", "", "Month (YYYY-MM, default current)")
	progressCalendarCmd.Flags().StringVar(&progressMonthArg, "month", "", "Month (YYYY-MM, default current)")
	progressSummaryCmd.Flags().StringVar(&summaryWeek, "week", "", "Any date in the week (YYYY-MM-DD, default this week)")
	progressSummaryCmd.Flags().StringVar(&summaryMonth, "month", "", "Month (YYYY-MM)")
	progressSummaryCmd.Flags().StringVar(&summaryFrom, "from", "", "From date (YYYY-MM-DD)")
	progressSummaryCmd.Flags().StringVar(&summaryTo, "to", "", "To date (YYYY-MM-DD)")
	progressWatchCmd.Flags().DurationVar(&progressWatchFor, "for", 0, "Stop after this long (default: until interrupted)")

	progressCmd.AddCommand(progressDayCmd, progressMonthCmd, progressStreakCmd, progressCalendarCmd, progressSummaryCmd, progressWatchCmd)
	rootCmd.AddCommand(progressCmd)
}
