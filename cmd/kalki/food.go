package kalki

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Log and manage foods",
}

var (
	foodName     string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodServing  string
	foodMeal     string
	foodDate     string
	foodTime     string
)

func addFoodFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&foodName, "name", "", "Food name")
	cmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories")
	cmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams")
	cmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carb grams")
	cmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat grams")
	cmd.Flags().StringVar(&foodServing, "serving", "", "Serving size description")
	cmd.Flags().StringVar(&foodMeal, "meal", "", "Meal: breakfast, lunch, dinner or snacks")
	cmd.Flags().StringVar(&foodDate, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&foodTime, "time", "", "Time (HH:MM)")
}

func foodInputFromFlags() (model.FoodInput, error) {
	for name, v := range map[string]float64{"calories": foodCalories, "protein": foodProtein, "carbs": foodCarbs, "fat": foodFat} {
		if v < 0 {
			return model.FoodInput{}, fmt.Errorf("%s must be >= 0", name)
		}
	}
	meal, err := parseMealFlag(foodMeal)
	if err != nil {
		return model.FoodInput{}, err
	}
	ts, err := parseOptionalDateTime(foodDate, foodTime)
	if err != nil {
		return model.FoodInput{}, err
	}
	return model.FoodInput{
		Name:        foodName,
		Calories:    foodCalories,
		Protein:     foodProtein,
		Carbs:       foodCarbs,
		Fats:        foodFat,
		ServingSize: foodServing,
		Timestamp:   ts,
		Meal:        meal,
	}, nil
}

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a food",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := foodInputFromFlags()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			entry, err := service.CreateFood(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s\n", entry.ID)
			return nil
		})
	},
}

var (
	listDate     string
	listFromDate string
	listToDate   string
	listMeal     string
	listLimit    int
	listJSON     bool
)

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.FoodFilter{
			Date:     listDate,
			FromDate: listFromDate,
			ToDate:   listToDate,
			Meal:     listMeal,
			Limit:    listLimit,
		}
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb, filter)
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(cmd.OutOrStdout(), foods)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tMEAL\tNAME\tKCAL\tP\tC\tF\tSERVING")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\t%s\n",
					f.ID, f.Timestamp.Format(dateTimeLayout), f.Meal, f.Name, f.Calories, f.Protein, f.Carbs, f.Fats, f.ServingSize)
			}
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("food id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.FoodByID(sqldb, id)
			if err != nil {
				return err
			}
			writeFood(cmd.OutOrStdout(), f)
			return nil
		})
	},
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a logged food",
	Long:  "Replace every field of a logged food. The time and meal are kept unless given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("food id", args[0])
		if err != nil {
			return err
		}
		in, err := foodInputFromFlags()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := service.UpdateFood(sqldb, id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %s\n", id)
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a logged food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("food id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteFood(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", id)
			return nil
		})
	},
}

func writeFood(w io.Writer, f model.FoodEntry) {
	fmt.Fprintf(w, "ID: %s\n", f.ID)
	fmt.Fprintf(w, "Date: %s\n", f.Timestamp.Format(dateTimeLayout))
	fmt.Fprintf(w, "Meal: %s\n", f.Meal)
	fmt.Fprintf(w, "Name: %s\n", f.Name)
	fmt.Fprintf(w, "Serving: %s\n", f.ServingSize)
	fmt.Fprintf(w, "Calories: %.0f\n", f.Calories)
	fmt.Fprintf(w, "Protein: %.1f\nCarbs: %.1f\nFat: %.1f\n", f.Protein, f.Carbs, f.Fats)
}

func init() {
	addFoodFlags(foodAddCmd)
	_ = foodAddCmd.MarkFlagRequired("name")

	foodListCmd.Flags().StringVar(&listDate, "date", "", "Filter by date (YYYY-MM-DD)")
	foodListCmd.Flags().StringVar(&listFromDate, "from", "", "Filter from date (YYYY-MM-DD)")
	foodListCmd.Flags().StringVar(&listToDate, "to", "", "Filter to date (YYYY-MM-DD)")
	foodListCmd.Flags().StringVar(&listMeal, "meal", "", "Filter by meal")
	foodListCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of foods")
	foodListCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")

	addFoodFlags(foodUpdateCmd)
	_ = foodUpdateCmd.MarkFlagRequired("name")

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd, foodUpdateCmd, foodDeleteCmd)
	rootCmd.AddCommand(foodCmd)
}

func trimmedArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
