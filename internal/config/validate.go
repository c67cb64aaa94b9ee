package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the loaded configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if c.Progress.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("progress.retention_days must be > 0"))
	}
	if c.Progress.MinRefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("progress.min_refresh_interval must be >= 0"))
	}
	if c.Progress.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("progress.refresh_interval must be > 0"))
	}

	switch c.Nutrition.Provider {
	case NutritionProviderMock, NutritionProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("nutrition.provider must be %s or %s, got %q",
			NutritionProviderMock, NutritionProviderOpenAI, c.Nutrition.Provider))
	}
	if c.Nutrition.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("nutrition.timeout must be > 0"))
	}

	return errors.Join(errs...)
}
