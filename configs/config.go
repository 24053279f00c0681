package configs

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Alpaca     AlpacaConfig     `mapstructure:"alpaca"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Compliance ComplianceConfig `mapstructure:"compliance"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// AlpacaConfig holds configuration for the brokerage gateway
type AlpacaConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	DataBaseURL    string  `mapstructure:"data_base_url"`
	APIKey         string  `mapstructure:"api_key"`
	APISecret      string  `mapstructure:"api_secret"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComplianceConfig holds thresholds for the AML transaction sweep
type ComplianceConfig struct {
	LargeTransactionThreshold float64 `mapstructure:"large_transaction_threshold"`
	HighSeverityThreshold     float64 `mapstructure:"high_severity_threshold"`
}

// Load reads configuration from environment variables with sane defaults.
// Keys map to env vars with dots replaced by underscores, e.g.
// database.url -> DATABASE_URL, alpaca.api_key -> ALPACA_API_KEY.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("alpaca.base_url", "https://paper-api.alpaca.markets")
	v.SetDefault("alpaca.data_base_url", "https://data.alpaca.markets")
	v.SetDefault("alpaca.api_key", "")
	v.SetDefault("alpaca.api_secret", "")
	v.SetDefault("alpaca.rate_limit", 10) // requests per second
	v.SetDefault("alpaca.rate_limit_burst", 5)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("compliance.large_transaction_threshold", 5000)
	v.SetDefault("compliance.high_severity_threshold", 10000)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
