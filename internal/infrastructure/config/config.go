package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "harvestcycle/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
	Email       sharedConfig.EmailConfig       `mapstructure:"email"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	RateLimit   sharedConfig.RateLimitConfig   `mapstructure:"rate_limit"`
	Replacement sharedConfig.ReplacementConfig `mapstructure:"replacement"`
	Cycle       sharedConfig.CycleConfig       `mapstructure:"cycle"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is tolerated; defaults and env vars still apply.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("HARVESTCYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func validate(c *Config) error {
	w := c.Replacement.Window
	if w.StartDay < 0 || w.StartDay > 6 || w.EndDay < 0 || w.EndDay > 6 {
		return fmt.Errorf("replacement.window days must be within 0..6")
	}
	if w.EndHour < 0 || w.EndHour > 23 || w.EndMinute < 0 || w.EndMinute > 59 {
		return fmt.Errorf("replacement.window end time is out of range")
	}
	if c.Replacement.MonthlyCap < 1 {
		return fmt.Errorf("replacement.monthly_cap must be positive")
	}
	oc := c.Cycle.OrderCutoff
	if oc.Day < 0 || oc.Day > 6 || oc.Hour < 0 || oc.Hour > 23 || oc.Minute < 0 || oc.Minute > 59 {
		return fmt.Errorf("cycle.order_cutoff is out of range")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.RequestsPerHour < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "America/Los_Angeles")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "harvestcycle.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "harvestcycle_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@harvestcycle.local")
	v.SetDefault("email.from_name", "Harvest Cycle")
	v.SetDefault("email.admin_address", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl_seconds", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 20)
	v.SetDefault("rate_limit.requests_per_hour", 200)

	// Fresh-swap window: Sunday through Wednesday 23:59
	v.SetDefault("replacement.monthly_cap", 2)
	v.SetDefault("replacement.window.start_day", 0)
	v.SetDefault("replacement.window.end_day", 3)
	v.SetDefault("replacement.window.end_hour", 23)
	v.SetDefault("replacement.window.end_minute", 59)

	v.SetDefault("cycle.order_cutoff.day", 3)
	v.SetDefault("cycle.order_cutoff.hour", 23)
	v.SetDefault("cycle.order_cutoff.minute", 59)
	v.SetDefault("cycle.harvest_day", "Friday")
	v.SetDefault("cycle.delivery_day", "Saturday")
}
