// Package config provides unified configuration loading for the portal services.
// Supports YAML files, a .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

// Config holds all configuration for the portal API and CLI.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	QnA           QnAConfig           `yaml:"qna"`
	Vessel        VesselConfig        `yaml:"vessel"`
	Clova         ClovaConfig         `yaml:"clova"`
	Chatbot       ChatbotConfig       `yaml:"chatbot"`
	Cache         CacheConfig         `yaml:"cache"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// QnAConfig points at the question/answer dataset. Source is either an
// http(s) URL or a local file path.
type QnAConfig struct {
	Source string `yaml:"source"`
}

// VesselConfig holds QR lookup data settings.
type VesselConfig struct {
	DataPath string `yaml:"data_path"`
	Watch    bool   `yaml:"watch"`
}

// ClovaConfig holds CLOVA Studio settings. Credentials are read from the
// environment only and never from the YAML file.
type ClovaConfig struct {
	AccessKey string        `yaml:"-"`
	SecretKey string        `yaml:"-"`
	APIKey    string        `yaml:"-"`
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ChatbotConfig holds orchestrator settings.
type ChatbotConfig struct {
	ScoreThreshold float64       `yaml:"score_threshold"`
	AITimeout      time.Duration `yaml:"ai_timeout"`
	// RelayURL is the chat relay endpoint. Empty means the vendor is called
	// in-process with the Clova credentials.
	RelayURL string `yaml:"relay_url"`
	// MaxSessions caps the per-client conversations the API keeps.
	MaxSessions int `yaml:"max_sessions"`
}

// CacheConfig holds key/value store settings used for recent searches.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// RateLimitConfig bounds calls to the chat relay.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   30 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		QnA: QnAConfig{
			Source: "data/chatbot_qna.json",
		},
		Vessel: VesselConfig{
			DataPath: "data/qr_data.json",
			Watch:    true,
		},
		Clova: ClovaConfig{
			Model:   "HCX-003",
			BaseURL: "https://clovastudio.stream.ntruss.com",
			Timeout: 30 * time.Second,
		},
		Chatbot: ChatbotConfig{
			ScoreThreshold: 0.5,
			AITimeout:      10 * time.Second,
			MaxSessions:    10000,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        30 * 24 * time.Hour,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
				Prefix:   "kgs:",
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "chatbot-proxy",
		},
	}
}

// Validate checks the configuration for errors. Clova credentials are
// checked separately by ClovaConfig.Validate since only the relay needs them.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.QnA.Source) == "" {
		return fmt.Errorf("qna source is required")
	}

	if c.Chatbot.ScoreThreshold < 0 || c.Chatbot.ScoreThreshold > 1 {
		return fmt.Errorf("score_threshold must be between 0 and 1")
	}

	if c.Chatbot.AITimeout <= 0 {
		return fmt.Errorf("ai_timeout must be positive")
	}

	if c.Chatbot.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive")
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate_limit requires positive requests_per_second and burst")
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}

	return nil
}

// Validate reports which credentials are missing. The error names the
// environment variables only, never their values.
func (c ClovaConfig) Validate() error {
	var missing []string
	if c.AccessKey == "" {
		missing = append(missing, "NCP_ACCESS_KEY")
	}
	if c.SecretKey == "" {
		missing = append(missing, "NCP_SECRET_KEY")
	}
	if c.APIKey == "" {
		missing = append(missing, "CLOVA_API_KEY")
	}
	if len(missing) > 0 {
		return domain.ConfigError("missing clova credentials: "+strings.Join(missing, ", "), nil)
	}
	if c.Model == "" {
		return domain.ConfigError("clova model is required", nil)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("QNA_SOURCE"); v != "" {
		cfg.QnA.Source = v
	}

	if v := os.Getenv("VESSEL_DATA_PATH"); v != "" {
		cfg.Vessel.DataPath = v
	}

	cfg.Clova.AccessKey = os.Getenv("NCP_ACCESS_KEY")
	cfg.Clova.SecretKey = os.Getenv("NCP_SECRET_KEY")
	cfg.Clova.APIKey = os.Getenv("CLOVA_API_KEY")

	if v := os.Getenv("CLOVA_MODEL"); v != "" {
		cfg.Clova.Model = v
	}

	if v := os.Getenv("CLOVA_BASE_URL"); v != "" {
		cfg.Clova.BaseURL = v
	}

	if v := os.Getenv("CHAT_RELAY_URL"); v != "" {
		cfg.Chatbot.RelayURL = v
	}

	if v := os.Getenv("SCORE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chatbot.ScoreThreshold = f
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
