package config

import (
	"fmt"
	"time"
)

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUser       string `mapstructure:"smtp_user"`
	SMTPPassword   string `mapstructure:"smtp_password"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
	AlertRecipient string `mapstructure:"alert_recipient"`
}

// PublisherConfig controls the delivery retry policy and platform endpoints.
type PublisherConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay"`
	RetryMaxDelay   time.Duration `mapstructure:"retry_max_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	TelegramAPIBase string        `mapstructure:"telegram_api_base"`
	VKAPIBase       string        `mapstructure:"vk_api_base"`
}

// DispatcherConfig controls the durable task queue worker pool. Its retry
// policy is independent of the publisher's business-level retry ceiling.
type DispatcherConfig struct {
	Workers           int           `mapstructure:"workers"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	TaskTimeout       time.Duration `mapstructure:"task_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RequeueDelay      time.Duration `mapstructure:"requeue_delay"`
	VisibilityTimeout time.Duration `mapstructure:"visibility_timeout"`
}

type SchedulerConfig struct {
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	SweepBatchSize int           `mapstructure:"sweep_batch_size"`
}

// SecretsConfig carries the key material for encrypting integration tokens
// at rest. TokenKey is a base64-encoded 32-byte key.
type SecretsConfig struct {
	TokenKey string `mapstructure:"token_key"`
}

type AlertsConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
}
