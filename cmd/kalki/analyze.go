package kalki

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/config"
	"github.com/saadjs/kalki/internal/provider/openai"
	"github.com/saadjs/kalki/internal/service"
)

var (
	analyzeDetailed bool
	analyzeMeal     string
	analyzeDate     string
	analyzeTime     string
	analyzeProvider string
)

var foodAnalyzeCmd = &cobra.Command{
	Use:   "analyze <description>",
	Short: "Estimate nutrition for a description and log it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := trimmedArgs(args)
		meal, err := parseMealFlag(analyzeMeal)
		if err != nil {
			return err
		}
		ts, err := parseOptionalDateTime(analyzeDate, analyzeTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			analyzer, err := resolveAnalyzer(sqldb)
			if err != nil {
				return err
			}
			log, err := service.NewFoodLog(sqldb)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if cfg.Nutrition.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Nutrition.Timeout)
				defer cancel()
			}
			entry, err := service.AnalyzeAndLog(ctx, log, analyzer, service.AnalyzeRequest{
				Description: description,
				Detailed:    analyzeDetailed,
				Meal:        meal,
				Timestamp:   ts,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged food %s\n", entry.ID)
			writeFood(cmd.OutOrStdout(), entry)
			return nil
		})
	},
}

// resolveAnalyzer picks the backend from --provider or config. The OpenAI
// key comes from config first, then from the stored openai_api_key value.
func resolveAnalyzer(sqldb *sql.DB) (service.Analyzer, error) {
	provider := strings.ToLower(strings.TrimSpace(analyzeProvider))
	if provider == "" {
		provider = cfg.Nutrition.Provider
	}
	switch provider {
	case config.NutritionProviderMock:
		return service.MockAnalyzer{}, nil
	case config.NutritionProviderOpenAI:
		key := cfg.Nutrition.APIKey
		if key == "" {
			stored, _, err := service.GetConfig(sqldb, service.ConfigOpenAIAPIKey)
			if err != nil {
				return nil, err
			}
			key = stored
		}
		modelName := cfg.Nutrition.Model
		if stored, ok, err := service.GetConfig(sqldb, service.ConfigNutritionModel); err != nil {
			return nil, err
		} else if ok && stored != "" {
			modelName = stored
		}
		slog.Debug("using openai analyzer", slog.String("model", modelName))
		return &openai.Client{
			APIKey:     key,
			Endpoint:   cfg.Nutrition.Endpoint,
			Model:      modelName,
			HTTPClient: &http.Client{Timeout: cfg.Nutrition.Timeout},
		}, nil
	default:
		return nil, fmt.Errorf("invalid nutrition provider %q (use mock or openai)", provider)
	}
}

func init() {
	foodAnalyzeCmd.Flags().BoolVar(&analyzeDetailed, "detailed", false, "Ask for a detailed analysis")
	foodAnalyzeCmd.Flags().StringVar(&analyzeMeal, "meal", "", "Meal: breakfast, lunch, dinner or snacks")
	foodAnalyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "Date (YYYY-MM-DD)")
	foodAnalyzeCmd.Flags().StringVar(&analyzeTime, "time", "", "Time (HH:MM)")
	foodAnalyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "Nutrition provider: mock or openai (default from config)")
	foodCmd.AddCommand(foodAnalyzeCmd)
}
