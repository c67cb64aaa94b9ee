package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Progress  ProgressConfig  `yaml:"progress"`
	Nutrition NutritionConfig `yaml:"nutrition"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"KALKI_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"KALKI_LOG_FORMAT" env-default:"text"`
}

// StorageConfig points at the diary database. An empty path means the
// per-user default location.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"KALKI_DB"`
}

// ProgressConfig tunes the progress tracker.
type ProgressConfig struct {
	RetentionDays      int           `yaml:"retention_days"       env:"KALKI_RETENTION_DAYS"       env-default:"30"`
	MinRefreshInterval time.Duration `yaml:"min_refresh_interval" env:"KALKI_MIN_REFRESH_INTERVAL" env-default:"5s"`
	RefreshInterval    time.Duration `yaml:"refresh_interval"     env:"KALKI_REFRESH_INTERVAL"     env-default:"1m"`
}

const (
	NutritionProviderMock   = "mock"
	NutritionProviderOpenAI = "openai"
)

// NutritionConfig selects the food analysis backend.
type NutritionConfig struct {
	Provider string        `yaml:"provider" env:"KALKI_NUTRITION_PROVIDER" env-default:"mock"`
	APIKey   string        `yaml:"api_key"  env:"OPENAI_API_KEY"`
	Endpoint string        `yaml:"endpoint" env:"KALKI_NUTRITION_ENDPOINT" env-default:"https://api.openai.com/v1/chat/completions"`
	Model    string        `yaml:"model"    env:"KALKI_NUTRITION_MODEL"    env-default:"gpt-4"`
	Timeout  time.Duration `yaml:"timeout"  env:"KALKI_NUTRITION_TIMEOUT"  env-default:"30s"`
}
