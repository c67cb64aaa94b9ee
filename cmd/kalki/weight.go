package kalki

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/service"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Track body weight",
}

var (
	weightValue float64
	weightUnit  string
	weightDate  string
	weightTime  string
	weightNote  string
)

var weightAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDateTimeOrNow(weightDate, weightTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			entry, err := service.AddWeight(sqldb, service.WeightInput{
				Weight: weightValue,
				Unit:   weightUnit,
				Date:   at,
				Note:   weightNote,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added weight %s (%.1f kg)\n", entry.ID, entry.WeightKg)
			return nil
		})
	},
}

var (
	weightListFrom  string
	weightListTo    string
	weightListLimit int
	weightListUnit  string
	weightListJSON  bool
)

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListWeights(sqldb, service.WeightFilter{
				FromDate: weightListFrom,
				ToDate:   weightListTo,
				Limit:    weightListLimit,
			})
			if err != nil {
				return err
			}
			if weightListJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			unit := weightListUnit
			if unit == "" {
				unit = "kg"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID\tDATE\tWEIGHT(%s)\tNOTE\n", unit)
			for _, w := range items {
				v, err := service.WeightFromKg(w.WeightKg, unit)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\t%s\n", w.ID, w.Date.Format(dateTimeLayout), v, w.Note)
			}
			return nil
		})
	},
}

var weightDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("weight id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteWeight(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted weight %s\n", id)
			return nil
		})
	},
}

func init() {
	weightAddCmd.Flags().Float64Var(&weightValue, "weight", 0, "Weight value")
	weightAddCmd.Flags().StringVar(&weightUnit, "unit", "kg", "Weight unit: kg or lb")
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "Date (YYYY-MM-DD)")
	weightAddCmd.Flags().StringVar(&weightTime, "time", "", "Time (HH:MM)")
	weightAddCmd.Flags().StringVar(&weightNote, "note", "", "Optional note")
	_ = weightAddCmd.MarkFlagRequired("weight")

	weightListCmd.Flags().StringVar(&weightListFrom, "from", "", "From date (YYYY-MM-DD)")
	weightListCmd.Flags().StringVar(&weightListTo, "to", "", "To date (YYYY-MM-DD)")
	weightListCmd.Flags().IntVar(&weightListLimit, "limit", 50, "Maximum number of entries")
	weightListCmd.Flags().StringVar(&weightListUnit, "unit", "kg", "Display unit: kg or lb")
	weightListCmd.Flags().BoolVar(&weightListJSON, "json", false, "Output JSON")

	weightCmd.AddCommand(weightAddCmd, weightListCmd, weightDeleteCmd)
	rootCmd.AddCommand(weightCmd)
}
