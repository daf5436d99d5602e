package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every portal environment variable.
const EnvPrefix = "SANTELINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SANTELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"SANTELINK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SANTELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SANTELINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the portal at the supply-platform API.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"SANTELINK_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"SANTELINK_UPSTREAM_REQUEST_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream base url must be http or https, got %q", u.BaseURL)
	}
	if u.RequestTimeout <= 0 {
		return fmt.Errorf("upstream request timeout must be positive")
	}
	return nil
}

// SessionConfig governs portal session tokens and idle expiry.
type SessionConfig struct {
	Secret            string `envconfig:"SANTELINK_SESSION_SECRET" required:"true"`
	Issuer            string `envconfig:"SANTELINK_SESSION_ISSUER" default:"santelink-portal"`
	TTLMinutes        int    `envconfig:"SANTELINK_SESSION_TTL_MINUTES" default:"720"`
	InactivityMinutes int    `envconfig:"SANTELINK_SESSION_INACTIVITY_MINUTES" default:"60"`
}

// TTL returns the hard lifetime of a portal session token.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// InactivityWindow returns how long an idle session survives between requests.
func (s SessionConfig) InactivityWindow() time.Duration {
	if s.InactivityMinutes <= 0 {
		return 0
	}
	return time.Duration(s.InactivityMinutes) * time.Minute
}

// RedisConfig is optional; when URL is empty the portal keeps sessions in memory.
type RedisConfig struct {
	URL          string        `envconfig:"SANTELINK_REDIS_URL"`
	Password     string        `envconfig:"SANTELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SANTELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SANTELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SANTELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SANTELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SANTELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SANTELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis session store was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}
