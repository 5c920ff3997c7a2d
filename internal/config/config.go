package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/listinghub/listinghub/internal/trust"
)

const (
	defaultAppName         = "ListingHub"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultProfileCacheTTL = 5 * time.Minute
	defaultLoginRateLimit  = 5
	defaultDBMaxConns      = 10
	devJWTSecret           = "dev-access-secret-change-me"
	devRefreshSecret       = "dev-refresh-secret-change-me"
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	overrideModeEnvVar     = "MEMBERSHIP_OVERRIDE_MODE"
	loginRateLimitEnvVar   = "LOGIN_RATE_LIMIT_PER_MINUTE"
	profileCacheTTLEnvVar  = "PROFILE_CACHE_TTL"
	accessTokenTTLEnvVar   = "ACCESS_TOKEN_TTL"
	refreshTokenTTLEnvVar  = "REFRESH_TOKEN_TTL"
	dbMaxConnsEnvVar       = "DB_MAX_CONNS"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	RefreshSecret   string
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ProfileCacheTTL time.Duration
	LoginRateLimit  int
	DBMaxConns      int
	OverrideMode    trust.OverrideMode
	AdminEmails     []string
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through the given viper instance. Tests pass
// an instance with values preset.
func LoadFrom(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LOG_FORMAT", defaultLogFormat)
	v.SetDefault(loginRateLimitEnvVar, defaultLoginRateLimit)
	v.SetDefault(dbMaxConnsEnvVar, defaultDBMaxConns)

	cfg := Config{
		AppName:        v.GetString("APP_NAME"),
		AppEnv:         strings.ToLower(v.GetString("APP_ENV")),
		Port:           v.GetString("PORT"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:      strings.ToLower(v.GetString("LOG_FORMAT")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RefreshSecret:  v.GetString("REFRESH_SECRET"),
		LoginRateLimit: v.GetInt(loginRateLimitEnvVar),
		DBMaxConns:     v.GetInt(dbMaxConnsEnvVar),
	}

	var err error
	if cfg.ShutdownPeriod, err = secondsOrDuration(v, shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = secondsOrDuration(v, idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = duration(v, accessTokenTTLEnvVar, defaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = duration(v, refreshTokenTTLEnvVar, defaultRefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ProfileCacheTTL, err = duration(v, profileCacheTTLEnvVar, defaultProfileCacheTTL); err != nil {
		return Config{}, err
	}

	for _, email := range strings.Split(v.GetString("ADMIN_EMAILS"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, strings.ToLower(email))
		}
	}

	cfg.OverrideMode, err = trust.ParseOverrideMode(v.GetString(overrideModeEnvVar))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", overrideModeEnvVar, err)
	}

	if cfg.IsDev() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
		if cfg.RefreshSecret == "" {
			cfg.RefreshSecret = devRefreshSecret
		}
		return cfg, nil
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.JWTSecret
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service may run without Postgres and Redis.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func secondsOrDuration(v *viper.Viper, secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if raw := v.GetString(secondsKey); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return duration(v, durationKey, fallback)
}

func duration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
