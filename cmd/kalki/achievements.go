package kalki

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

var (
	achievementsType string
	achievementsJSON bool
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := service.Achievements(model.AchievementType(strings.ToLower(strings.TrimSpace(achievementsType))))
		if achievementsJSON {
			return printJSON(cmd.OutOrStdout(), items)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ID\tCATEGORY\tTITLE\tGOAL\tDESCRIPTION")
		for _, a := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%s\n", a.ID, a.Type.DisplayName(), a.Title, a.Requirement, a.Description)
		}
		return nil
	},
}

func init() {
	achievementsCmd.Flags().StringVar(&achievementsType, "type", "", "Only show one type (exercise, streak, protein, timing, consistency)")
	achievementsCmd.Flags().BoolVar(&achievementsJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(achievementsCmd)
}
