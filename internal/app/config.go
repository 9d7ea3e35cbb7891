package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	OpsAddr         string        `envconfig:"OPS_ADDR" default:":8080"`
	OpsReadTimeout  time.Duration `envconfig:"OPS_READ_TIMEOUT" default:"15s"`
	OpsWriteTimeout time.Duration `envconfig:"OPS_WRITE_TIMEOUT" default:"15s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	Footer   string `envconfig:"EMBED_FOOTER" default:"Role Manager"`

	// SupportURL, when set, is linked from the help reply.
	SupportURL string `envconfig:"SUPPORT_URL"`

	DataDir    string        `envconfig:"DATA_DIR" default:"data"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"5m"`

	// RedisAddr is optional. When set, interaction deduplication and the
	// audit delivery queue run on Redis; when empty both fall back to
	// in-process implementations.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BotToken == "" {
		return nil, errors.New("bot token must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// UseRedis reports whether a Redis backend is configured.
func (c *Config) UseRedis() bool {
	return c != nil && c.RedisAddr != ""
}
