package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	SMTP      SMTPConfig
	CORS      CORSConfig
	Log       LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig carries the signing key and the cryptographic token lifetimes.
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SessionConfig carries the cache entry TTLs. The refresh entry TTL is
// deliberately shorter than the refresh token's cryptographic expiry: the
// cache entry is the effective session lifetime ceiling.
type SessionConfig struct {
	ActiveTTL     time.Duration
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	VerifyCodeTTL time.Duration
}

// RateLimitConfig tunes the admission gate evaluated before every request.
type RateLimitConfig struct {
	Algorithm      string
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	LeakPerSecond  int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Account  string
	Password string
	Sender   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:        v.GetString("JWT_SECRET"),
		AccessExpiry:  parseDuration(v.GetString("JWT_ACCESS_EXPIRATION"), 2*time.Hour),
		RefreshExpiry: parseDuration(v.GetString("JWT_REFRESH_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.Session = SessionConfig{
		ActiveTTL:     parseDuration(v.GetString("SESSION_ACTIVE_TTL"), 48*time.Hour),
		AccessTTL:     parseDuration(v.GetString("SESSION_ACCESS_TTL"), 2*time.Hour),
		RefreshTTL:    parseDuration(v.GetString("SESSION_REFRESH_TTL"), 48*time.Hour),
		VerifyCodeTTL: parseDuration(v.GetString("VERIFY_CODE_TTL"), 5*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		Algorithm:      v.GetString("RATE_LIMIT_ALGORITHM"),
		Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
		RefillTokens:   v.GetInt("RATE_LIMIT_REFILL_TOKENS"),
		RefillInterval: parseDuration(v.GetString("RATE_LIMIT_REFILL_INTERVAL"), time.Second),
		LeakPerSecond:  v.GetInt("RATE_LIMIT_LEAK_PER_SECOND"),
	}

	cfg.SMTP = SMTPConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		Account:  v.GetString("SMTP_ACCOUNT"),
		Password: v.GetString("SMTP_PASSWORD"),
		Sender:   v.GetString("SMTP_SENDER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "naive_dev")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ACCESS_EXPIRATION", "2h")
	v.SetDefault("JWT_REFRESH_EXPIRATION", "168h")

	v.SetDefault("SESSION_ACTIVE_TTL", "48h")
	v.SetDefault("SESSION_ACCESS_TTL", "2h")
	v.SetDefault("SESSION_REFRESH_TTL", "48h")
	v.SetDefault("VERIFY_CODE_TTL", "5m")

	v.SetDefault("RATE_LIMIT_ALGORITHM", "token_bucket")
	v.SetDefault("RATE_LIMIT_CAPACITY", 1000)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 50)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "1s")
	v.SetDefault("RATE_LIMIT_LEAK_PER_SECOND", 50)

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_ACCOUNT", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
