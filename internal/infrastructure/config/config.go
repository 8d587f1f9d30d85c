// Package config loads application configuration from configs/config.yaml
// with ZAVOD_-prefixed environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Email      EmailConfig      `mapstructure:"email"`
	Publisher  PublisherConfig  `mapstructure:"publisher"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables. An explicit
// configPath overrides the default search locations.
func Load(env, configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	viper.SetEnvPrefix("ZAVOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("app.env", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.timezone", "UTC")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "zavod_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "alerts@zavod.local")
	viper.SetDefault("email.from_name", "Zavod")
	viper.SetDefault("email.alert_recipient", "")

	// Publisher defaults
	viper.SetDefault("publisher.max_attempts", 3)
	viper.SetDefault("publisher.retry_base_delay", "60s")
	viper.SetDefault("publisher.retry_max_delay", "900s")
	viper.SetDefault("publisher.request_timeout", "10s")
	viper.SetDefault("publisher.telegram_api_base", "https://api.telegram.org")
	viper.SetDefault("publisher.vk_api_base", "https://api.vk.com")

	// Dispatcher defaults
	viper.SetDefault("dispatcher.workers", 4)
	viper.SetDefault("dispatcher.poll_interval", "1s")
	viper.SetDefault("dispatcher.task_timeout", "2m")
	viper.SetDefault("dispatcher.max_attempts", 5)
	viper.SetDefault("dispatcher.requeue_delay", "30s")
	viper.SetDefault("dispatcher.visibility_timeout", "10m")

	// Scheduler defaults
	viper.SetDefault("scheduler.sweep_interval", "1m")
	viper.SetDefault("scheduler.sweep_batch_size", 100)

	// Secrets defaults (must be configured outside development)
	viper.SetDefault("secrets.token_key", "")

	// Alert defaults
	viper.SetDefault("alerts.cooldown", "30m")
}
