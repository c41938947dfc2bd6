package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/logger"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Upload    UploadConfig    `mapstructure:"upload"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Email     EmailConfig     `mapstructure:"email"`
	Site      SiteConfig      `mapstructure:"site"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log rotation settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts log settings into logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig holds connection pool settings.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig selects the driver (sqlite/postgres) and DSN.
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"`
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// AuthConfig holds token issuance, lockout and password policy settings.
type AuthConfig struct {
	JWTSecret          string               `mapstructure:"jwt_secret"`
	AccessExpireHours  int                  `mapstructure:"access_expire_hours"`
	RefreshExpireHours int                  `mapstructure:"refresh_expire_hours"`
	BcryptCost         int                  `mapstructure:"bcrypt_cost"`
	Lockout            LockoutConfig        `mapstructure:"lockout"`
	PasswordPolicy     PasswordPolicyConfig `mapstructure:"password_policy"`
}

// LockoutConfig controls failed-login lockout.
type LockoutConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
	LockMinutes int `mapstructure:"lock_minutes"`
}

// LockDuration returns the configured lock window.
func (c LockoutConfig) LockDuration() time.Duration {
	minutes := c.LockMinutes
	if minutes <= 0 {
		minutes = 120
	}
	return time.Duration(minutes) * time.Minute
}

// PasswordPolicyConfig controls password strength checks.
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// RedisConfig holds the shared cache / rate-limit store settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig holds the asynq worker settings.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// RateClassConfig is one route class's fixed-window policy.
type RateClassConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// SlowDownConfig controls the progressive-delay layer applied before
// the general ceiling rejects outright.
type SlowDownConfig struct {
	Threshold  int `mapstructure:"threshold"`
	StepMS     int `mapstructure:"step_ms"`
	MaxDelayMS int `mapstructure:"max_delay_ms"`
}

// RateLimitConfig holds per-class admission policies.
type RateLimitConfig struct {
	Enabled    bool            `mapstructure:"enabled"`
	TrustedIPs []string        `mapstructure:"trusted_ips"`
	General    RateClassConfig `mapstructure:"general"`
	Auth       RateClassConfig `mapstructure:"auth"`
	Read       RateClassConfig `mapstructure:"read"`
	Strict     RateClassConfig `mapstructure:"strict"`
	Upload     RateClassConfig `mapstructure:"upload"`
	Heavy      RateClassConfig `mapstructure:"heavy"`
	Password   RateClassConfig `mapstructure:"password"`
	SlowDown   SlowDownConfig  `mapstructure:"slow_down"`
}

// UploadConfig holds media upload limits and cloudinary credentials.
type UploadConfig struct {
	MaxSize           int64            `mapstructure:"max_size"`
	AllowedTypes      []string         `mapstructure:"allowed_types"`
	AllowedExtensions []string         `mapstructure:"allowed_extensions"`
	LocalDir          string           `mapstructure:"local_dir"`
	Cloudinary        CloudinaryConfig `mapstructure:"cloudinary"`
}

// CloudinaryConfig holds the cloud media host credentials.
type CloudinaryConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// EmailConfig holds SMTP settings for transactional mail.
type EmailConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	FromName   string `mapstructure:"from_name"`
	UseTLS     bool   `mapstructure:"use_tls"`
	UseSSL     bool   `mapstructure:"use_ssl"`
	AdminInbox string `mapstructure:"admin_inbox"`
}

// SiteConfig holds client-facing URLs embedded in emails.
type SiteConfig struct {
	Name      string `mapstructure:"name"`
	ClientURL string `mapstructure:"client_url"`
}

// Load reads config.yml plus environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "api.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/paveworks.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("auth.access_expire_hours", 24)
	viper.SetDefault("auth.refresh_expire_hours", 168)
	viper.SetDefault("auth.bcrypt_cost", 12)
	viper.SetDefault("auth.lockout.max_attempts", 5)
	viper.SetDefault("auth.lockout.lock_minutes", 120)
	viper.SetDefault("auth.password_policy.min_length", 8)
	viper.SetDefault("auth.password_policy.require_upper", true)
	viper.SetDefault("auth.password_policy.require_lower", true)
	viper.SetDefault("auth.password_policy.require_number", true)
	viper.SetDefault("auth.password_policy.require_special", false)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "pw")
	viper.SetDefault("queue.enabled", false)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{"default": 10})
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.trusted_ips", []string{})
	viper.SetDefault("rate_limit.general.window_seconds", 900)
	viper.SetDefault("rate_limit.general.max_requests", 100)
	viper.SetDefault("rate_limit.auth.window_seconds", 900)
	viper.SetDefault("rate_limit.auth.max_requests", 5)
	viper.SetDefault("rate_limit.read.window_seconds", 900)
	viper.SetDefault("rate_limit.read.max_requests", 200)
	viper.SetDefault("rate_limit.strict.window_seconds", 900)
	viper.SetDefault("rate_limit.strict.max_requests", 10)
	viper.SetDefault("rate_limit.upload.window_seconds", 900)
	viper.SetDefault("rate_limit.upload.max_requests", 50)
	viper.SetDefault("rate_limit.heavy.window_seconds", 900)
	viper.SetDefault("rate_limit.heavy.max_requests", 20)
	viper.SetDefault("rate_limit.password.window_seconds", 3600)
	viper.SetDefault("rate_limit.password.max_requests", 3)
	viper.SetDefault("rate_limit.slow_down.threshold", 50)
	viper.SetDefault("rate_limit.slow_down.step_ms", 500)
	viper.SetDefault("rate_limit.slow_down.max_delay_ms", 20000)
	viper.SetDefault("upload.max_size", 10485760)
	viper.SetDefault("upload.allowed_types", []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	})
	viper.SetDefault("upload.allowed_extensions", []string{
		".jpg",
		".jpeg",
		".png",
		".gif",
		".webp",
	})
	viper.SetDefault("upload.local_dir", "./uploads")
	viper.SetDefault("upload.cloudinary.enabled", false)
	viper.SetDefault("upload.cloudinary.cloud_name", "")
	viper.SetDefault("upload.cloudinary.api_key", "")
	viper.SetDefault("upload.cloudinary.api_secret", "")
	viper.SetDefault("upload.cloudinary.folder", "paveworks")
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.host", "")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.username", "")
	viper.SetDefault("email.password", "")
	viper.SetDefault("email.from", "")
	viper.SetDefault("email.from_name", "PaveWorks")
	viper.SetDefault("email.use_tls", true)
	viper.SetDefault("email.use_ssl", false)
	viper.SetDefault("email.admin_inbox", "")
	viper.SetDefault("site.name", "PaveWorks")
	viper.SetDefault("site.client_url", "http://localhost:3000")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("parse config: %w", err))
	}

	return &cfg
}
