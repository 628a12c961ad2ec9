// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Engine        EngineConfig       `mapstructure:"engine"`
	Responder     ResponderConfig    `mapstructure:"responder"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Property      PropertyConfig     `mapstructure:"property"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	ListenAddr  string `mapstructure:"listen_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EngineConfig holds the conversation engine settings.
type EngineConfig struct {
	MaxUtteranceLen int `mapstructure:"max_utterance_len"`
	SessionTTL      int `mapstructure:"session_ttl"`     // minutes; soft expiry of idle sessions
	HistoryWindow   int `mapstructure:"history_window"`  // turns forwarded to the responder
}

// ResponderConfig holds settings for the external reply-drafting API.
type ResponderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// NotificationConfig holds settings for confirmation delivery.
type NotificationConfig struct {
	Provider    string `mapstructure:"provider"` // "smtp" or "ses"
	MaxAttempts int    `mapstructure:"max_attempts"`
	BaseDelay   int    `mapstructure:"base_delay"`      // milliseconds, doubles each retry
	MaxDelay    int    `mapstructure:"max_delay"`       // milliseconds, backoff cap
	SendTimeout int    `mapstructure:"send_timeout"`    // milliseconds, per attempt

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`

	SES struct {
		Region    string `mapstructure:"region"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
}

// PropertyConfig holds the property identity rendered into confirmations.
type PropertyConfig struct {
	Name        string `mapstructure:"name"`
	Address     string `mapstructure:"address"`
	OfficePhone string `mapstructure:"office_phone"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
