// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_REDIS_ADDRESS
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not found.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from plain env vars when the config file
// left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Responder.APIKey == "" {
		if val := os.Getenv("RESPONDER_API_KEY"); val != "" {
			cfg.Responder.APIKey = val
		}
	}

	if cfg.Notifications.SMTP.Username == "" {
		if val := os.Getenv("SMTP_USERNAME"); val != "" {
			cfg.Notifications.SMTP.Username = val
		}
	}
	if cfg.Notifications.SMTP.Password == "" {
		if val := os.Getenv("SMTP_PASSWORD"); val != "" {
			cfg.Notifications.SMTP.Password = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lease-concierge"
	}
	if cfg.App.ListenAddr == "" {
		cfg.App.ListenAddr = ":8080"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Engine.MaxUtteranceLen == 0 {
		cfg.Engine.MaxUtteranceLen = 1000
	}
	if cfg.Engine.SessionTTL == 0 {
		cfg.Engine.SessionTTL = 7 * 24 * 60
	}
	if cfg.Engine.HistoryWindow == 0 {
		cfg.Engine.HistoryWindow = 10
	}

	if cfg.Responder.Timeout == 0 {
		cfg.Responder.Timeout = 30000
	}

	if cfg.Notifications.Provider == "" {
		cfg.Notifications.Provider = "smtp"
	}
	if cfg.Notifications.MaxAttempts == 0 {
		cfg.Notifications.MaxAttempts = 3
	}
	if cfg.Notifications.BaseDelay == 0 {
		cfg.Notifications.BaseDelay = 2000
	}
	if cfg.Notifications.MaxDelay == 0 {
		cfg.Notifications.MaxDelay = 30000
	}
	if cfg.Notifications.SendTimeout == 0 {
		cfg.Notifications.SendTimeout = 30000
	}
	if cfg.Notifications.SMTP.Port == 0 {
		cfg.Notifications.SMTP.Port = 587
	}

	if cfg.Property.Name == "" {
		cfg.Property.Name = "Luxury Apartments at Main Street"
	}
	if cfg.Property.Address == "" {
		cfg.Property.Address = "123 Main St, Anytown, ST 12345"
	}
	if cfg.Property.OfficePhone == "" {
		cfg.Property.OfficePhone = "(555) 123-4567"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.Notifications.Provider {
	case "smtp":
		if cfg.Notifications.SMTP.Host == "" {
			return fmt.Errorf("notifications.smtp.host is required for the smtp provider")
		}
		if cfg.Notifications.SMTP.From == "" {
			return fmt.Errorf("notifications.smtp.from is required for the smtp provider")
		}
	case "ses":
		if cfg.Notifications.SES.Region == "" {
			return fmt.Errorf("notifications.ses.region is required for the ses provider")
		}
		if cfg.Notifications.SES.FromEmail == "" {
			return fmt.Errorf("notifications.ses.from_email is required for the ses provider")
		}
	default:
		return fmt.Errorf("notifications.provider must be smtp or ses, got %q", cfg.Notifications.Provider)
	}

	if cfg.Notifications.MaxAttempts < 1 {
		return fmt.Errorf("notifications.max_attempts must be at least 1")
	}

	return nil
}
