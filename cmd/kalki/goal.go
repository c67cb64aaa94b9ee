package kalki

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily calorie, protein and exercise goals",
}

var goalFlags = map[string]*string{
	"calories": new(string),
	"protein":  new(string),
	"exercise": new(string),
	"minutes":  new(string),
}

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more goals",
	Long:  "Set goals. Values are stored as entered; anything that is not a number reads back as the default.",
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := make([]string, 0, len(goalFlags))
		for _, name := range []string{"calories", "protein", "exercise", "minutes"} {
			if cmd.Flags().Changed(name) {
				changed = append(changed, name)
			}
		}
		if len(changed) == 0 {
			return fmt.Errorf("set at least one of --calories, --protein, --exercise or --minutes")
		}
		return withDB(func(sqldb *sql.DB) error {
			for _, name := range changed {
				if err := service.SetGoalValue(sqldb, name, *goalFlags[name]); err != nil {
					return err
				}
			}
			return writeGoals(cmd, sqldb)
		})
	},
}

var goalShowJSON bool

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the goals in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			return writeGoals(cmd, sqldb)
		})
	},
}

func writeGoals(cmd *cobra.Command, sqldb *sql.DB) error {
	goals, err := service.LoadGoals(sqldb)
	if err != nil {
		return err
	}
	if goalShowJSON {
		return printJSON(cmd.OutOrStdout(), goals)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Calories: %.0f kcal\n", goals.Calories)
	fmt.Fprintf(out, "Protein: %.0f g\n", goals.Protein)
	fmt.Fprintf(out, "Active calories: %.0f kcal\n", goals.Exercise)
	fmt.Fprintf(out, "Active minutes: %d\n", goals.ExerciseMinutes)
	return nil
}

func init() {
	goalSetCmd.Flags().StringVar(goalFlags["calories"], "calories", "", "Daily calorie limit")
	goalSetCmd.Flags().StringVar(goalFlags["protein"], "protein", "", "Daily protein target in grams")
	goalSetCmd.Flags().StringVar(goalFlags["exercise"], "exercise", "", "Daily active calorie target")
	goalSetCmd.Flags().StringVar(goalFlags["minutes"], "minutes", "", "Daily active minutes target")
	goalShowCmd.Flags().BoolVar(&goalShowJSON, "json", false, "Output JSON")

	goalCmd.AddCommand(goalSetCmd, goalShowCmd)
	rootCmd.AddCommand(goalCmd)
}
