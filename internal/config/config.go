// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	AppEnv      string
	Addr        string
	DatabaseURL string
	DB          DBPool

	RedisURL      string
	RedisAddr     string
	RedisUser     string
	RedisPassword string

	RateLimit RateLimit

	LogLevel  string
	LogFormat string

	CORSOrigins []string
	// TrustedProxies are the peers whose X-Forwarded-For is believed when
	// identifying clients for rate limiting. Empty means none.
	TrustedProxies []netip.Prefix
	MaxBodyBytes   int64
	StrictSecurity bool

	// TLSCert and TLSKey switch the listener to HTTPS when both are set.
	TLSCert string
	TLSKey  string
}

type DBPool struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

type RateLimit struct {
	PerSecond   float64
	Burst       int
	WindowLimit int
	Window      time.Duration
}

// Load reads envFile when it exists (missing files are ignored) and then
// the process environment. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs []error
	cfg := Config{
		AppEnv:        env("APP_ENV", "development"),
		Addr:          env("API_ADDR", ":3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUser:     os.Getenv("REDIS_USER"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "json"),
		CORSOrigins:   splitCSV(env("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		TLSCert:       os.Getenv("TLS_CERT_FILE"),
		TLSKey:        os.Getenv("TLS_KEY_FILE"),
	}
	cfg.StrictSecurity = os.Getenv("STRICT_SECURITY") == "1"

	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	cfg.DB.MaxOpen, err = envInt("DB_MAX_OPEN_CONNS", 10, 1)
	collect(err)
	cfg.DB.MaxIdle, err = envInt("DB_MAX_IDLE_CONNS", 10, 0)
	collect(err)
	cfg.DB.MaxIdleTime, err = envDuration("DB_CONN_MAX_IDLE_TIME", "5m")
	collect(err)
	cfg.DB.MaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", "30m")
	collect(err)
	cfg.RateLimit.PerSecond, err = envFloat("RATE_LIMIT_PER_SECOND", 5)
	collect(err)
	cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", 20, 1)
	collect(err)
	cfg.RateLimit.WindowLimit, err = envInt("RATE_LIMIT_WINDOW_MAX", 3000, 1)
	collect(err)
	cfg.RateLimit.Window, err = envDuration("RATE_LIMIT_WINDOW", "1h")
	collect(err)
	cfg.TrustedProxies, err = parseProxies(os.Getenv("TRUSTED_PROXIES"))
	collect(err)
	maxBody, err := envInt("MAX_BODY_SIZE", 1<<20, 1)
	collect(err)
	cfg.MaxBodyBytes = int64(maxBody)

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return cfg, errors.Join(errs...)
}

// RequireDatabase fails when no DSN is configured.
func (c Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL not set")
	}
	return nil
}

// RedisEnabled reports whether any Redis connection setting is present.
func (c Config) RedisEnabled() bool { return c.RedisURL != "" || c.RedisAddr != "" }

// RedisOptions builds client options from REDIS_URL or the split
// REDIS_ADDR/REDIS_USER/REDIS_PASSWORD settings.
func (c Config) RedisOptions() (*redis.Options, error) {
	if c.RedisURL != "" {
		opt, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = time.Second
		opt.WriteTimeout = time.Second
		return opt, nil
	}
	if c.RedisAddr == "" {
		return nil, errors.New("redis not configured: set REDIS_URL or REDIS_ADDR")
	}
	opt := &redis.Options{
		Addr:         c.RedisAddr,
		Username:     c.RedisUser,
		Password:     c.RedisPassword,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if c.RedisPassword != "" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

// HardeningWarnings returns non-fatal findings worth logging at startup.
func (c Config) HardeningWarnings() []string {
	var warns []string
	if !c.RedisEnabled() {
		warns = append(warns, "redis not configured; rate limiting is disabled")
	}
	if strings.EqualFold(c.AppEnv, "production") {
		if strings.HasPrefix(c.RedisURL, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss://")
		}
		if c.RedisAddr != "" && c.RedisPassword == "" {
			warns = append(warns, "REDIS_ADDR provided without REDIS_PASSWORD; require auth in production")
		}
		if c.TLSCert == "" {
			warns = append(warns, "serving plain HTTP in production; terminate TLS upstream")
		}
		if strings.EqualFold(c.LogFormat, "console") {
			warns = append(warns, "LOG_FORMAT=console in production; prefer json")
		}
	}
	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(ctx context.Context, rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

// --- helpers ---

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key, def string) (time.Duration, error) {
	s := env(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, s)
	}
	return d, nil
}

func envInt(key string, def, min int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: not a number: %q", key, s)
	}
	if n < min {
		return 0, fmt.Errorf("%s: must be >= %d", key, min)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s: must be a positive number, got %q", key, s)
	}
	return f, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseProxies reads a comma-separated list of CIDRs or bare addresses.
func parseProxies(s string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range splitCSV(s) {
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address or CIDR %q", item)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
