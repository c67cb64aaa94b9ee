package kalki

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/service"
)

var (
	calcWeight   float64
	calcHeight   float64
	calcAge      float64
	calcSex      string
	calcActivity string
	calcImperial bool
	calcApply    bool
	calcJSON     bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Estimate daily calorie and protein needs",
	Long:  "Estimate BMR with the Mifflin-St Jeor equation and scale it by activity level. --apply saves the result as goals.",
	RunE: func(cmd *cobra.Command, args []string) error {
		needs, err := service.CalculateNeeds(service.CalcInput{
			Weight:   calcWeight,
			Height:   calcHeight,
			Age:      calcAge,
			Sex:      service.Sex(calcSex),
			Activity: calcActivity,
			Imperial: calcImperial,
		})
		if err != nil {
			return err
		}
		if calcApply {
			if err := withDB(func(sqldb *sql.DB) error {
				return service.ApplyNeeds(sqldb, needs)
			}); err != nil {
				return err
			}
		}
		if calcJSON {
			return printJSON(cmd.OutOrStdout(), needs)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "BMR: %d kcal\n", int(needs.BMR))
		fmt.Fprintf(out, "TDEE: %d kcal\n", int(needs.TDEE))
		fmt.Fprintf(out, "Protein: %d g\n", int(needs.RecommendedProtein))
		fmt.Fprintf(out, "Active calories: %d kcal\n", int(needs.RecommendedActive))
		if calcApply {
			fmt.Fprintln(out, "Saved as goals")
		}
		return nil
	},
}

func init() {
	calcCmd.Flags().Float64Var(&calcWeight, "weight", 0, "Body weight (kg, or lb with --imperial)")
	calcCmd.Flags().Float64Var(&calcHeight, "height", 0, "Height (cm, or inches with --imperial)")
	calcCmd.Flags().Float64Var(&calcAge, "age", 0, "Age in years")
	calcCmd.Flags().StringVar(&calcSex, "sex", "male", "male or female")
	calcCmd.Flags().StringVar(&calcActivity, "activity", "sedentary", "sedentary, light, moderate, heavy or athlete")
	calcCmd.Flags().BoolVar(&calcImperial, "imperial", false, "Weight in lb and height in inches")
	calcCmd.Flags().BoolVar(&calcApply, "apply", false, "Save the estimate as goals")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(calcCmd)
}
