// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	ML         MLConfig         `mapstructure:"ml"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	RateBudget RateBudgetConfig `mapstructure:"rate_budget"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// MLConfig contains the recommendation service configuration. The
// timeouts are per-operation because ranking sits on the plan
// generation path while training runs in the background.
type MLConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RankTimeout     time.Duration `mapstructure:"rank_timeout"`
	TrainTimeout    time.Duration `mapstructure:"train_timeout"`
	LivenessTimeout time.Duration `mapstructure:"liveness_timeout"`
	FeedbackBuffer  int           `mapstructure:"feedback_buffer"`
}

// PlannerConfig contains plan generation tuning
type PlannerConfig struct {
	CandidatePoolSize int     `mapstructure:"candidate_pool_size"`
	DefaultServings   float64 `mapstructure:"default_servings"`
	RecipeCacheTTL    time.Duration `mapstructure:"recipe_cache_ttl"`
}

// RateBudgetConfig contains external API quota configuration
type RateBudgetConfig struct {
	Enable            bool    `mapstructure:"enable"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	DailyLimit        int64   `mapstructure:"daily_limit"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/snacktrack")
	}

	// Enable environment variable override
	v.SetEnvPrefix("SNACKTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "SnackTrack Planner")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)

	// ML service defaults
	v.SetDefault("ml.base_url", "http://localhost:8001")
	v.SetDefault("ml.rank_timeout", "10s")
	v.SetDefault("ml.train_timeout", "30s")
	v.SetDefault("ml.liveness_timeout", "3s")
	v.SetDefault("ml.feedback_buffer", 256)

	// Planner defaults
	v.SetDefault("planner.candidate_pool_size", 50)
	v.SetDefault("planner.default_servings", 1.0)
	v.SetDefault("planner.recipe_cache_ttl", "15m")

	// Rate budget defaults
	v.SetDefault("rate_budget.enable", true)
	v.SetDefault("rate_budget.requests_per_second", 5)
	v.SetDefault("rate_budget.burst", 10)
	v.SetDefault("rate_budget.daily_limit", 5000)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Database.Database == "" && c.App.Environment == "production" {
		return fmt.Errorf("database.database is required in production")
	}

	if c.ML.BaseURL == "" {
		return fmt.Errorf("ml.base_url is required")
	}

	if c.Planner.CandidatePoolSize < 1 {
		return fmt.Errorf("planner.candidate_pool_size must be at least 1")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
