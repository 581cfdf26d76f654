package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	// URL selects the gateway backend: empty means the in-process gateway,
	// anything else is parsed as a Redis connection URL.
	URL string `mapstructure:"url"`
}

type RedditConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
}

type AIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type NotifierConfig struct {
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	SMTPUser  string `mapstructure:"smtp_user"`
	FromEmail string `mapstructure:"from_email"`
	AppURL    string `mapstructure:"app_url"`
}

type SweepConfig struct {
	// RecencyWindow bounds how far back a candidate post may have been
	// created and still count as new; it matches the scheduler interval.
	RecencyWindow time.Duration `mapstructure:"recency_window"`
	SearchLimit   int           `mapstructure:"search_limit"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Reddit    RedditConfig    `mapstructure:"reddit"`
	AI        AIConfig        `mapstructure:"ai"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	Secrets Secrets `mapstructure:"-"`
}

// Secrets are never read from the config file; they come from the
// environment only.
type Secrets struct {
	CronSecret      string `envconfig:"CRON_SECRET" required:"true"`
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	AIAPIKey        string `envconfig:"AI_API_KEY"`
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	SlackWebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("failed to load secrets from environment: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.request_timeout", 30*time.Second)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("reddit.base_url", "https://www.reddit.com")
	viper.SetDefault("reddit.user_agent", "finance-scoop:v1.0.0 (by /u/finance_scoop)")
	viper.SetDefault("reddit.request_timeout", 15*time.Second)
	viper.SetDefault("reddit.rate_limit", 10)
	viper.SetDefault("reddit.rate_window", 600*time.Second)

	viper.SetDefault("ai.base_url", "https://api.x.ai/v1")
	viper.SetDefault("ai.model", "grok-4-fast-reasoning")
	viper.SetDefault("ai.request_timeout", 60*time.Second)

	viper.SetDefault("notifier.smtp_port", 587)
	viper.SetDefault("notifier.from_email", "notifications@finance-scoop.com")

	viper.SetDefault("sweep.recency_window", 900*time.Second)
	viper.SetDefault("sweep.search_limit", 10)
	viper.SetDefault("sweep.timeout", 5*time.Minute)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", false)

	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
}
