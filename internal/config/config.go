package config

import (
	"sync"
)

// Config is the root configuration for the Firstline gateway.
type Config struct {
	Agent      AgentConfig      `json:"agent"`
	Providers  ProvidersConfig  `json:"providers"`
	Gateway    GatewayConfig    `json:"gateway"`
	Platforms  PlatformsConfig  `json:"platforms"`
	Database   DatabaseConfig   `json:"database,omitempty"`
	Dispatcher DispatcherConfig `json:"dispatcher,omitempty"`
	Analytics  AnalyticsConfig  `json:"analytics,omitempty"`
	Telemetry  TelemetryConfig  `json:"telemetry,omitempty"`
	mu         sync.RWMutex
}

// AgentConfig controls the reply pipeline's generation backend.
type AgentConfig struct {
	Provider       string  `json:"provider"` // "openai", "anthropic", "gemini", "" = mock mode
	Model          string  `json:"model,omitempty"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"` // per LLM call (default 30)
	PromptVariant  string  `json:"prompt_variant,omitempty"`  // "a", "b", "random", "auto"
}

// ProvidersConfig holds LLM provider credentials. API keys are read from env
// only, never persisted in the config file.
type ProvidersConfig struct {
	OpenAI    ProviderConfig `json:"openai,omitempty"`
	Anthropic ProviderConfig `json:"anthropic,omitempty"`
	Gemini    ProviderConfig `json:"gemini,omitempty"`
}

// ProviderConfig is one LLM provider's settings.
type ProviderConfig struct {
	APIKey  string `json:"-"` // from env FIRSTLINE_<PROVIDER>_API_KEY only
	APIBase string `json:"api_base,omitempty"`
}

// GatewayConfig configures the webhook HTTP server.
type GatewayConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	MaxMessageChars int    `json:"max_message_chars,omitempty"` // reject longer webhook messages (default 32000)
	RateLimitRPM    int    `json:"rate_limit_rpm,omitempty"`    // per-sender webhook rate limit (default 20)
}

// PlatformsConfig configures outbound messaging platform clients.
type PlatformsConfig struct {
	TikTok   PlatformConfig `json:"tiktok,omitempty"`
	LinkedIn PlatformConfig `json:"linkedin,omitempty"`
}

// PlatformConfig is one platform's settings. Empty credentials switch the
// client to mock mode.
type PlatformConfig struct {
	Enabled       bool   `json:"enabled,omitempty"`
	AccessToken   string `json:"-"` // from env FIRSTLINE_<PLATFORM>_TOKEN only
	WebhookSecret string `json:"-"` // from env FIRSTLINE_<PLATFORM>_WEBHOOK_SECRET only
	APIBase       string `json:"api_base,omitempty"`
	RateLimitRPM  int    `json:"rate_limit_rpm,omitempty"` // outbound send limit (default 60)
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `json:"path,omitempty"` // default ~/.firstline/firstline.db
}

// DispatcherConfig configures the message worker pool.
type DispatcherConfig struct {
	Workers   int `json:"workers,omitempty"`    // default 4
	QueueSize int `json:"queue_size,omitempty"` // default 256
}

// AnalyticsConfig configures the periodic metrics rollup.
type AnalyticsConfig struct {
	RollupCron string `json:"rollup_cron,omitempty"` // cron expression, default "0 * * * *"
}

// TelemetryConfig configures OpenTelemetry trace export. When enabled,
// pipeline spans are exported to an OTLP-compatible backend (Jaeger, Tempo,
// Datadog, etc.).
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty"`     // e.g. "localhost:4317"
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // skip TLS, for local dev
	ServiceName string            `json:"service_name,omitempty"` // default "firstline-gateway"
	Headers     map[string]string `json:"headers,omitempty"`      // extra headers (auth tokens for cloud backends)
}

// ReplaceFrom copies all data fields from src into c, preserving c's mutex.
func (c *Config) ReplaceFrom(src *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Agent = src.Agent
	c.Providers = src.Providers
	c.Gateway = src.Gateway
	c.Platforms = src.Platforms
	c.Database = src.Database
	c.Dispatcher = src.Dispatcher
	c.Analytics = src.Analytics
	c.Telemetry = src.Telemetry
}
