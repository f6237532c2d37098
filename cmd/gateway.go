package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firstlinehq/firstline/internal/config"
	"github.com/firstlinehq/firstline/internal/gateway"
	"github.com/firstlinehq/firstline/internal/pipeline"
	"github.com/firstlinehq/firstline/internal/platforms"
	"github.com/firstlinehq/firstline/internal/providers"
	"github.com/firstlinehq/firstline/internal/service"
	"github.com/firstlinehq/firstline/internal/store"
	"github.com/firstlinehq/firstline/internal/telemetry"
	"github.com/firstlinehq/firstline/internal/tools"
)

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Run the webhook gateway",
		Run: func(cmd *cobra.Command, args []string) {
			runGateway()
		},
	}
}

func runGateway() {
	setupLogging()

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownTelemetry(shutdownCtx)
	}()

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath(), "error", err)
		os.Exit(1)
	}
	defer st.Close()

	clients := buildPlatformClients(cfg)
	registry := tools.DefaultRegistry(clients)

	engine := pipeline.NewEngine(pipeline.EngineConfig{
		Backend:     buildBackend(cfg, registry),
		Registry:    registry,
		VariantMode: cfg.Agent.PromptVariant,
	})

	processor := service.NewProcessor(engine, st, clients)
	dispatcher := service.NewDispatcher(processor, cfg.Dispatcher.Workers, cfg.Dispatcher.QueueSize)
	dispatcher.Start(ctx)

	rollup, err := service.NewRollup(st, cfg.Analytics.RollupCron)
	if err != nil {
		slog.Error("invalid rollup schedule", "error", err)
		os.Exit(1)
	}
	go rollup.Run(ctx)

	server := gateway.NewServer(cfg, dispatcher, st)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("gateway failed", "error", err)
		}
	}

	cancel()
	dispatcher.Stop()
	slog.Info("goodbye")
}

// buildBackend constructs the generation backend from config. An empty or
// unknown provider yields a mock-mode backend: the pipeline falls back to
// rule-based classification and canned replies.
func buildBackend(cfg *config.Config, registry *tools.Registry) *pipeline.Backend {
	var provider providers.Provider

	switch cfg.Agent.Provider {
	case "openai":
		p := cfg.ProviderFor("openai")
		provider = providers.NewOpenAIProvider("openai", p.APIKey, p.APIBase, cfg.Agent.Model)
	case "anthropic":
		p := cfg.ProviderFor("anthropic")
		provider = providers.NewAnthropicProvider(p.APIKey, cfg.Agent.Model)
	case "gemini":
		p := cfg.ProviderFor("gemini")
		provider = providers.NewGeminiProvider(p.APIKey, cfg.Agent.Model)
	case "":
		slog.Warn("no LLM provider configured, running in mock mode")
	default:
		slog.Warn("unknown provider, running in mock mode", "provider", cfg.Agent.Provider)
	}

	return pipeline.NewBackend(pipeline.BackendConfig{
		Provider:    provider,
		Registry:    registry,
		Model:       cfg.Agent.Model,
		MaxTokens:   cfg.Agent.MaxTokens,
		Temperature: cfg.Agent.Temperature,
		Timeout:     time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
	})
}

func buildPlatformClients(cfg *config.Config) platforms.Registry {
	clients := platforms.Registry{}

	tt := cfg.Platforms.TikTok
	clients["tiktok"] = platforms.NewTikTokClient(tt.AccessToken, tt.RateLimitRPM)

	li := cfg.Platforms.LinkedIn
	clients["linkedin"] = platforms.NewLinkedInClient(li.AccessToken, li.RateLimitRPM)

	return clients
}
