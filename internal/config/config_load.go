package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Provider:       "",
			MaxTokens:      500,
			Temperature:    0.7,
			TimeoutSeconds: 30,
			PromptVariant:  "auto",
		},
		Gateway: GatewayConfig{
			Host:            "0.0.0.0",
			Port:            18990,
			MaxMessageChars: 32000,
			RateLimitRPM:    20,
		},
		Database: DatabaseConfig{
			Path: "~/.firstline/firstline.db",
		},
		Dispatcher: DispatcherConfig{
			Workers:   4,
			QueueSize: 256,
		},
		Analytics: AnalyticsConfig{
			RollupCron: "0 * * * *",
		},
	}
}

// Load reads config from a JSON file, then overlays env vars.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envStr("FIRSTLINE_OPENAI_API_KEY", &c.Providers.OpenAI.APIKey)
	envStr("FIRSTLINE_ANTHROPIC_API_KEY", &c.Providers.Anthropic.APIKey)
	envStr("FIRSTLINE_GEMINI_API_KEY", &c.Providers.Gemini.APIKey)

	envStr("FIRSTLINE_TIKTOK_TOKEN", &c.Platforms.TikTok.AccessToken)
	envStr("FIRSTLINE_TIKTOK_WEBHOOK_SECRET", &c.Platforms.TikTok.WebhookSecret)
	envStr("FIRSTLINE_LINKEDIN_TOKEN", &c.Platforms.LinkedIn.AccessToken)
	envStr("FIRSTLINE_LINKEDIN_WEBHOOK_SECRET", &c.Platforms.LinkedIn.WebhookSecret)

	// Auto-enable platforms if credentials are provided via env
	if c.Platforms.TikTok.AccessToken != "" {
		c.Platforms.TikTok.Enabled = true
	}
	if c.Platforms.LinkedIn.AccessToken != "" {
		c.Platforms.LinkedIn.Enabled = true
	}

	// Allow overriding the generation backend
	envStr("FIRSTLINE_PROVIDER", &c.Agent.Provider)
	envStr("FIRSTLINE_MODEL", &c.Agent.Model)
	envStr("FIRSTLINE_PROMPT_VARIANT", &c.Agent.PromptVariant)

	// Gateway host/port
	envStr("FIRSTLINE_HOST", &c.Gateway.Host)
	if v := os.Getenv("FIRSTLINE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Gateway.Port = port
		}
	}

	// Database
	envStr("FIRSTLINE_DB_PATH", &c.Database.Path)

	// Telemetry
	envStr("FIRSTLINE_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("FIRSTLINE_TELEMETRY_PROTOCOL", &c.Telemetry.Protocol)
	envStr("FIRSTLINE_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	if v := os.Getenv("FIRSTLINE_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("FIRSTLINE_TELEMETRY_INSECURE"); v != "" {
		c.Telemetry.Insecure = v == "true" || v == "1"
	}
}

// ApplyEnvOverrides re-applies environment variable overrides onto the
// config. Call this after modifying config to restore runtime secrets.
func (c *Config) ApplyEnvOverrides() {
	c.applyEnvOverrides()
}

// Save writes the config to a JSON file. Secret fields carry `json:"-"` and
// never persist.
func Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Hash returns a SHA-256 hash of the config for optimistic concurrency.
func (c *Config) Hash() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, _ := json.Marshal(c)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:8])
}

// DatabasePath returns the expanded SQLite path.
func (c *Config) DatabasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ExpandHome(c.Database.Path)
}

// ProviderFor returns the credentials for the named provider.
func (c *Config) ProviderFor(name string) ProviderConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch name {
	case "openai":
		return c.Providers.OpenAI
	case "anthropic":
		return c.Providers.Anthropic
	case "gemini":
		return c.Providers.Gemini
	}
	return ProviderConfig{}
}

// ExpandHome replaces leading ~ with the user home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := os.UserHomeDir()
	if len(path) > 1 && path[1] == '/' {
		return home + path[1:]
	}
	return home
}
