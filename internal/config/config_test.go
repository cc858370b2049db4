package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("NCP_ACCESS_KEY", "")
	t.Setenv("NCP_SECRET_KEY", "")
	t.Setenv("CLOVA_API_KEY", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearCredentials(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Chatbot.ScoreThreshold)
	assert.Equal(t, 10*time.Second, cfg.Chatbot.AITimeout)
	assert.Equal(t, 10000, cfg.Chatbot.MaxSessions)
	assert.Equal(t, "HCX-003", cfg.Clova.Model)
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearCredentials(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "dev.yaml")
	yamlDoc := `
server:
  port: 9090
qna:
  source: https://example.org/chatbot_qna.json
chatbot:
  score_threshold: 0.7
  ai_timeout: 5s
observability:
  log_level: debug
  log_format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("NCP_ACCESS_KEY", "ak")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://example.org/chatbot_qna.json", cfg.QnA.Source)
	assert.Equal(t, 0.7, cfg.Chatbot.ScoreThreshold)
	assert.Equal(t, 5*time.Second, cfg.Chatbot.AITimeout)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "ak", cfg.Clova.AccessKey)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	clearCredentials(t)
	t.Setenv("SCORE_THRESHOLD", "1.5")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score_threshold")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "empty qna source", mutate: func(c *Config) { c.QnA.Source = " " }, wantErr: true},
		{name: "bad cache driver", mutate: func(c *Config) { c.Cache.Driver = "memcached" }, wantErr: true},
		{name: "zero ai timeout", mutate: func(c *Config) { c.Chatbot.AITimeout = 0 }, wantErr: true},
		{name: "rate limit without burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: true},
		{name: "rate limit disabled", mutate: func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.Burst = 0
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClovaConfig_Validate(t *testing.T) {
	cfg := ClovaConfig{AccessKey: "ak-value", SecretKey: "sk-value", Model: "HCX-003"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "CLOVA_API_KEY")
	assert.NotContains(t, err.Error(), "ak-value")
	assert.NotContains(t, err.Error(), "sk-value")

	cfg.APIKey = "api"
	assert.NoError(t, cfg.Validate())
}
