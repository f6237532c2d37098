package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Agent.MaxTokens != 500 {
		t.Errorf("Agent.MaxTokens = %d, want 500", cfg.Agent.MaxTokens)
	}
	if cfg.Agent.TimeoutSeconds != 30 {
		t.Errorf("Agent.TimeoutSeconds = %d, want 30", cfg.Agent.TimeoutSeconds)
	}
	if cfg.Gateway.Port != 18990 {
		t.Errorf("Gateway.Port = %d, want 18990", cfg.Gateway.Port)
	}
	if cfg.Dispatcher.Workers != 4 || cfg.Dispatcher.QueueSize != 256 {
		t.Errorf("Dispatcher = %+v, want 4 workers / 256 queue", cfg.Dispatcher)
	}
	if cfg.Analytics.RollupCron != "0 * * * *" {
		t.Errorf("Analytics.RollupCron = %q", cfg.Analytics.RollupCron)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("Gateway.Host = %q, want default", cfg.Gateway.Host)
	}
}

func TestLoadJSON5WithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		// generation backend
		agent: {
			provider: "openai",
			model: "gpt-4o-mini",
			prompt_variant: "b",
		},
		gateway: { port: 9000 },
	}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agent.Provider != "openai" || cfg.Agent.Model != "gpt-4o-mini" {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if cfg.Agent.PromptVariant != "b" {
		t.Errorf("PromptVariant = %q, want b", cfg.Agent.PromptVariant)
	}
	if cfg.Gateway.Port != 9000 {
		t.Errorf("Gateway.Port = %d, want 9000", cfg.Gateway.Port)
	}
	// Unset file fields keep defaults.
	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("Gateway.Host = %q, want default", cfg.Gateway.Host)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FIRSTLINE_OPENAI_API_KEY", "sk-test")
	t.Setenv("FIRSTLINE_TIKTOK_TOKEN", "tt-token")
	t.Setenv("FIRSTLINE_PORT", "7777")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("OpenAI.APIKey = %q", cfg.Providers.OpenAI.APIKey)
	}
	if !cfg.Platforms.TikTok.Enabled {
		t.Error("TikTok not auto-enabled by env token")
	}
	if cfg.Gateway.Port != 7777 {
		t.Errorf("Gateway.Port = %d, want 7777", cfg.Gateway.Port)
	}
}

func TestSaveNeverPersistsSecrets(t *testing.T) {
	cfg := Default()
	cfg.Providers.OpenAI.APIKey = "sk-secret"
	cfg.Platforms.TikTok.WebhookSecret = "whsec"

	path := filepath.Join(t.TempDir(), "out.json")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"sk-secret", "whsec"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("saved config contains secret %q", secret)
		}
	}
}
