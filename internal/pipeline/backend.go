package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/firstlinehq/firstline/internal/providers"
	"github.com/firstlinehq/firstline/internal/tools"
)

// toolRoundTripLimit bounds backend-driven tool chains: after the model
// requests tools, exactly one follow-up call is made with the tool outputs.
// A loop counter, not recursion, so a misbehaving backend cannot spin.
const toolRoundTripLimit = 1

// Backend wraps a provider with the two capabilities the pipeline needs:
// classification and generation. A Backend with a nil provider reports
// unavailable and every call fails with providers.ErrUnavailable, which
// callers recover from locally.
type Backend struct {
	provider    providers.Provider
	registry    *tools.Registry
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// BackendConfig configures a Backend.
type BackendConfig struct {
	Provider    providers.Provider
	Registry    *tools.Registry
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewBackend(cfg BackendConfig) *Backend {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Backend{
		provider:    cfg.Provider,
		registry:    cfg.Registry,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// Available reports whether a provider is configured.
func (b *Backend) Available() bool {
	return b != nil && b.provider != nil
}

// Classify sends a classification prompt and returns the raw model text.
func (b *Backend) Classify(ctx context.Context, prompt string) (string, error) {
	if !b.Available() {
		return "", providers.ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.provider.Chat(ctx, providers.ChatRequest{
		Messages:    []providers.Message{{Role: "user", Content: prompt}},
		Model:       b.model,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Generate sends a generation prompt, offering the tool registry to the
// model. If the model requests tool calls, each is executed through the
// registry and one follow-up call is made with the outputs appended; the
// follow-up's text is final regardless of further tool requests.
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	if !b.Available() {
		return "", providers.ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var toolDefs []providers.ToolDefinition
	if b.registry != nil {
		toolDefs = b.registry.ProviderDefs()
	}

	messages := []providers.Message{{Role: "user", Content: prompt}}

	resp, err := b.provider.Chat(ctx, providers.ChatRequest{
		Messages:    messages,
		Tools:       toolDefs,
		Model:       b.model,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", err
	}

	for trip := 0; trip < toolRoundTripLimit && len(resp.ToolCalls) > 0; trip++ {
		messages = append(messages, providers.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			messages = append(messages, providers.Message{
				Role:       "tool",
				Content:    b.executeToolCall(ctx, tc),
				ToolCallID: tc.ID,
			})
		}

		resp, err = b.provider.Chat(ctx, providers.ChatRequest{
			Messages:    messages,
			Model:       b.model,
			MaxTokens:   b.maxTokens,
			Temperature: b.temperature,
		})
		if err != nil {
			return "", err
		}
	}

	return resp.Content, nil
}

// executeToolCall runs one model-requested tool and serializes the result
// for the follow-up call. Failures become error strings, never aborts.
func (b *Backend) executeToolCall(ctx context.Context, tc providers.ToolCall) string {
	if b.registry == nil {
		return fmt.Sprintf("error: no tools registered (requested %s)", tc.Name)
	}

	result, err := b.registry.Execute(ctx, tc.Name, tc.Arguments)
	if err != nil {
		slog.Warn("backend tool call failed", "tool", tc.Name, "error", err)
		return "error: " + err.Error()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("error: unserializable result from %s", tc.Name)
	}
	return string(data)
}
