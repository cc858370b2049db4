package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
	"github.com/yhseo-kgs/chatbot-proxy/internal/cache"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
	"github.com/yhseo-kgs/chatbot-proxy/internal/clova"
	"github.com/yhseo-kgs/chatbot-proxy/internal/config"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
	"github.com/yhseo-kgs/chatbot-proxy/internal/recent"
)

const loadTimeout = 30 * time.Second

// errInit is returned after the init notice has already been shown.
var errInit = errors.New("knowledge base unavailable")

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger keeps the CLI quiet unless -v is set. Logs go to stderr so they
// never interleave with answers.
func newLogger(cfg *config.Config) *observability.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: cfg.Observability.ServiceName + "-cli",
	})
}

// openStore loads the QnA dataset. On failure the init notice is printed and
// errInit is returned.
func openStore(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*qna.Store, error) {
	store := qna.NewStore(qna.NewSource(cfg.QnA.Source, &http.Client{Timeout: loadTimeout}), logger)

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	if err := store.Initialize(loadCtx); err != nil {
		logger.Error().Err(err).Str("source", cfg.QnA.Source).Msg("Failed to load QnA data")
		ui.Error("%s", chatbot.InitErrorMessage)
		ui.Debug("%v", err)
		return nil, errInit
	}
	return store, nil
}

// newAIClient picks the relay when one is configured, otherwise calls the
// vendor directly. Without credentials it returns nil and every
// low-confidence question takes the fallback branch.
func newAIClient(cfg *config.Config) chatbot.AIClient {
	if cfg.Chatbot.RelayURL != "" {
		ui.Debug("AI via relay %s", cfg.Chatbot.RelayURL)
		return chatbot.NewRelayClient(cfg.Chatbot.RelayURL, nil)
	}
	if err := cfg.Clova.Validate(); err != nil {
		ui.Debug("AI disabled: %v", err)
		return nil
	}
	ui.Debug("AI via CLOVA Studio model %s", cfg.Clova.Model)
	return chatbot.NewDirectClient(clova.NewClient(clova.Config{
		Credentials: clova.Credentials{
			AccessKey: cfg.Clova.AccessKey,
			SecretKey: cfg.Clova.SecretKey,
			APIKey:    cfg.Clova.APIKey,
		},
		BaseURL: cfg.Clova.BaseURL,
		Model:   cfg.Clova.Model,
		Timeout: cfg.Clova.Timeout,
	}))
}

// newOrchestrator wires config, store and AI client together.
func newOrchestrator(ctx context.Context) (*chatbot.Orchestrator, *qna.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	orch := chatbot.New(store, newAIClient(cfg), chatbot.Config{
		ScoreThreshold: chatbot.Threshold(cfg.Chatbot.ScoreThreshold),
		AITimeout:      cfg.Chatbot.AITimeout,
	}, logger)
	return orch, store, nil
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// cliClientID keys this user's recent searches in a shared cache.
func cliClientID() string {
	if u := os.Getenv("USER"); u != "" {
		return "cli-" + u
	}
	return "cli"
}

// openRecent returns the recent-search store. Only the redis driver keeps
// lists between runs.
func openRecent(cfg *config.Config) (*recent.Store, func(), error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, func() {}, err
	}
	return recent.NewStore(c, cfg.Cache.TTL), func() { _ = c.Close() }, nil
}
