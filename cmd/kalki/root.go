package kalki

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kalki/internal/app"
	"github.com/saadjs/kalki/internal/config"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "kalki",
	Short:         "kalki is a food and fitness diary for your terminal",
	Long:          "kalki is a local-first food diary with calorie and protein goals, streaks, monthly progress, weight tracking and AI food analysis.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, app.DefaultConfigPath())
		if err != nil {
			return err
		}
		if strings.TrimSpace(logLevel) != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		app.NewLogger(cfg.Log, cmd.ErrOrStderr())
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default $KALKI_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}
