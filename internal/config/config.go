package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Engine EngineConfig `mapstructure:"engine"`
	Report ReportConfig `mapstructure:"report"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// EngineConfig holds reconciliation engine configuration. Region selects the
// remittance layout convention; only the Turkish layout is implemented.
type EngineConfig struct {
	Region          string  `mapstructure:"region"`
	SalesWindowDays int     `mapstructure:"sales_window_days"`
	AmountTolerance float64 `mapstructure:"amount_tolerance"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.max_upload_mb", 32)

	viper.SetDefault("engine.region", "TR")
	viper.SetDefault("engine.sales_window_days", 33)
	viper.SetDefault("engine.amount_tolerance", 0.80)

	viper.SetDefault("report.output_dir", "reports")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.Region != "TR" {
		return fmt.Errorf("engine.region %q is not supported: only TR is implemented", c.Engine.Region)
	}
	if c.Engine.SalesWindowDays <= 0 {
		return fmt.Errorf("engine.sales_window_days must be positive")
	}
	if c.Engine.AmountTolerance < 0 {
		return fmt.Errorf("engine.amount_tolerance must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
