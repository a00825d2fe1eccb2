// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/ewbot/internal/domain"
)

// Default configuration values.
const (
	// DefaultServerPort is the default port of the operational HTTP server.
	DefaultServerPort = 8080

	// DefaultClientRetryMaxAttempts is the default number of attempts per
	// quote-service call. One attempt means a command makes exactly one GET.
	DefaultClientRetryMaxAttempts = 1

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultClientRateLimit is the default sustained quote-service requests per second.
	DefaultClientRateLimit = 10.0

	// DefaultClientRateBurst is the default request burst allowed above the rate.
	DefaultClientRateBurst = 20

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultQuoteServiceURL is the production quote service.
	DefaultQuoteServiceURL = "https://quoteservice.andrlik.org"

	// DefaultQuoteGroup is the group all commands are scoped to.
	DefaultQuoteGroup = "ew"
)

// Environment variables read without the APP_ prefix, mapped to config keys.
var plainEnvKeys = map[string]string{
	"BOT_TOKEN":              "discord.token",
	"DISCORD_APPLICATION_ID": "discord.application_id",
	"DISCORD_GUILD_ID":       "discord.guild_id",
	"QS_TOKEN":               "services.quote.token",
	"MAINTENANCE_MODE":       "maintenance.mode",
	"ADMIN_TOKEN":            "server.admin_token",
}

// Config is the root configuration structure.
type Config struct {
	App         AppConfig         `koanf:"app"         validate:"required"`
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	Log         LogConfig         `koanf:"log"         validate:"required"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Client      ClientConfig      `koanf:"client"      validate:"required"`
	Services    ServicesConfig    `koanf:"services"    validate:"required"`
	Discord     DiscordConfig     `koanf:"discord"     validate:"required"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	Cache       CacheConfig       `koanf:"cache"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains settings for the operational HTTP server
// (health probes, build info and metrics).
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Port            int           `koanf:"port"             validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required_if=Enabled true"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"omitempty,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"omitempty,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`

	// AdminToken guards the /-/admin routes. Empty leaves them unregistered.
	AdminToken string `koanf:"admin_token"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for the quote service.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// RateLimitConfig throttles outbound requests. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
	Burst             int     `koanf:"burst"               validate:"min=0"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	Quote QuoteServiceConfig `koanf:"quote" validate:"required"`
}

// QuoteServiceConfig identifies the quote service and the group the bot serves.
type QuoteServiceConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
	Group   string `koanf:"group"    validate:"required,alphanum"`
	Token   string `koanf:"token"    validate:"required"`
}

// DiscordConfig contains Discord bot settings.
type DiscordConfig struct {
	Token         string `koanf:"token"          validate:"required"`
	ApplicationID string `koanf:"application_id"`
	GuildID       string `koanf:"guild_id"`
	LogLevel      string `koanf:"log_level"      validate:"omitempty,oneof=debug info warn error"`

	// RegisterOnReady overwrites the slash commands each time the gateway is ready.
	RegisterOnReady bool `koanf:"register_on_ready"`

	// CommandTimeout bounds one command from receipt to reply.
	CommandTimeout time.Duration `koanf:"command_timeout" validate:"min=0"`

	// DeferAfter is how long a command may run before the reply is deferred.
	// Discord drops interactions not acknowledged within 3s. Zero never defers.
	DeferAfter time.Duration `koanf:"defer_after" validate:"min=0"`
}

// MaintenanceConfig holds the raw maintenance switch as read from the environment.
type MaintenanceConfig struct {
	Mode string `koanf:"mode"`
}

// Enabled reports whether maintenance mode is on.
func (m MaintenanceConfig) Enabled() bool {
	return domain.IsMaintenanceActive(m.Mode)
}

// CacheConfig controls response caching. A zero TTL disables caching.
type CacheConfig struct {
	SourcesTTL time.Duration `koanf:"sources_ttl" validate:"min=0"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "ewbot",
		"app.version":     "dev",
		"app.environment": "local",

		"server.enabled":          true,
		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "10s",
		"server.shutdown_timeout": "10s",
		"server.admin_token":      "",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/ewbot.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "ewbot",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "2s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",
		"client.rate_limit.requests_per_second":    DefaultClientRateLimit,
		"client.rate_limit.burst":                  DefaultClientRateBurst,

		"services.quote.base_url": DefaultQuoteServiceURL,
		"services.quote.name":     "quote-service",
		"services.quote.group":    DefaultQuoteGroup,
		"services.quote.token":    "",

		"discord.token":             "",
		"discord.application_id":    "",
		"discord.guild_id":          "",
		"discord.log_level":         "warn",
		"discord.register_on_ready": true,
		"discord.command_timeout":   "30s",
		"discord.defer_after":       "2s",

		"maintenance.mode": "",

		"cache.sources_ttl": "0s",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Bot environment variables (BOT_TOKEN, QS_TOKEN, MAINTENANCE_MODE, ...)
//  2. Environment variables (APP_ prefix)
//  3. Profile config file (configs/{profile}.yaml)
//  4. Base config file (configs/base.yaml)
//  5. Default values
//
// A .env file in the working directory is loaded into the process environment
// first; variables already set take precedence over it.
func Load(profile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			"_",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 5. Load the bot's own variables; unknown names map to "" and are skipped
	err = k.Load(env.Provider("", ".", func(s string) string {
		return plainEnvKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading bot env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// loadDotEnv loads a dotenv file if it exists without overriding set variables.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}
