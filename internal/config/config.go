package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/carehub/portal/pkg/caldate"
)

const (
	AuthModeDevelopment = "development"
	AuthModeStandard    = "standard"

	DataSourceMemory   = "memory"
	DataSourcePostgres = "postgres"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	AuthMode          string        `mapstructure:"AUTH_MODE"`
	DataSource        string        `mapstructure:"DATA_SOURCE"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	SessionSigningKey string        `mapstructure:"SESSION_SIGNING_KEY"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	LoginDelay        time.Duration `mapstructure:"LOGIN_DELAY"`
	DemoPassword      string        `mapstructure:"DEMO_PASSWORD"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	Today             string        `mapstructure:"TODAY"`
}

var keys = []string{
	"PORT", "ENV", "AUTH_MODE", "DATA_SOURCE", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_URL", "SESSION_SIGNING_KEY", "SESSION_TTL", "LOGIN_DELAY", "DEMO_PASSWORD",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT", "TODAY",
}

// Load reads .env when present, then the environment. It does not
// validate; call Validate before serving.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // "" -> inferred from ENV
	v.SetDefault("DATA_SOURCE", DataSourceMemory)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("LOGIN_DELAY", "0s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if origins := v.GetString("CORS_ORIGINS"); origins != "" && len(cfg.CORSOrigins) <= 1 {
		cfg.CORSOrigins = splitList(origins)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns AUTH_MODE when set. Otherwise ENV=development
// means "development" and everything else means "standard".
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return AuthModeDevelopment
	}
	return AuthModeStandard
}

// AllowPresenceOnly reports whether users without a password hash may log
// in on any non-empty password.
func (c *Config) AllowPresenceOnly() bool {
	return c.ResolvedAuthMode() == AuthModeDevelopment
}

// SigningKey decodes SESSION_SIGNING_KEY. It returns nil when unset.
func (c *Config) SigningKey() ([]byte, error) {
	if c.SessionSigningKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.SessionSigningKey)
	if err != nil {
		return nil, fmt.Errorf("SESSION_SIGNING_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("SESSION_SIGNING_KEY must be 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}

// FixedToday returns the TODAY override, if any.
func (c *Config) FixedToday() (caldate.Date, bool, error) {
	if c.Today == "" {
		return caldate.Date{}, false, nil
	}
	d, err := caldate.Parse(c.Today)
	if err != nil {
		return caldate.Date{}, false, fmt.Errorf("TODAY: %w", err)
	}
	return d, true, nil
}

// Validate checks the cross-field rules. Outside development mode a
// signing key is mandatory.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != AuthModeDevelopment && mode != AuthModeStandard {
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeDevelopment, AuthModeStandard, mode)
	}
	if c.IsProduction() && mode == AuthModeDevelopment {
		return fmt.Errorf("AUTH_MODE=development is not allowed when ENV=production")
	}

	if _, err := c.SigningKey(); err != nil {
		return err
	}
	if mode != AuthModeDevelopment && c.SessionSigningKey == "" {
		return fmt.Errorf("SESSION_SIGNING_KEY is required when AUTH_MODE is %q", mode)
	}

	switch c.DataSource {
	case DataSourceMemory:
	case DataSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE is %q", DataSourcePostgres)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceMemory, DataSourcePostgres, c.DataSource)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.LoginDelay < 0 {
		return fmt.Errorf("LOGIN_DELAY must not be negative, got %s", c.LoginDelay)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if _, _, err := c.FixedToday(); err != nil {
		return err
	}
	return nil
}
