package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firstlinehq/firstline/internal/providers"
	"github.com/firstlinehq/firstline/internal/tools"
)

// scriptedProvider replays canned responses in order and records every
// request it sees.
type scriptedProvider struct {
	responses []providers.ChatResponse
	err       error
	requests  []providers.ChatRequest
}

func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "test-model" }

func (p *scriptedProvider) Chat(_ context.Context, req providers.ChatRequest) (*providers.ChatResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &providers.ChatResponse{Content: "out of script"}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return &resp, nil
}

func TestBackendNilProviderUnavailable(t *testing.T) {
	b := NewBackend(BackendConfig{})

	if b.Available() {
		t.Error("Available() = true with nil provider")
	}
	if _, err := b.Classify(context.Background(), "x"); !errors.Is(err, providers.ErrUnavailable) {
		t.Errorf("Classify error = %v, want ErrUnavailable", err)
	}
	if _, err := b.Generate(context.Background(), "x"); !errors.Is(err, providers.ErrUnavailable) {
		t.Errorf("Generate error = %v, want ErrUnavailable", err)
	}
}

func TestBackendGeneratePlainText(t *testing.T) {
	p := &scriptedProvider{responses: []providers.ChatResponse{
		{Content: "Here is your answer."},
	}}
	b := NewBackend(BackendConfig{Provider: p, Registry: tools.DefaultRegistry(nil)})

	got, err := b.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Here is your answer." {
		t.Errorf("Generate = %q", got)
	}
	if len(p.requests) != 1 {
		t.Fatalf("provider called %d times, want 1", len(p.requests))
	}
	if len(p.requests[0].Tools) == 0 {
		t.Error("first request carried no tool definitions")
	}
}

func TestBackendGenerateOneToolRoundTrip(t *testing.T) {
	p := &scriptedProvider{responses: []providers.ChatResponse{
		{
			ToolCalls: []providers.ToolCall{{
				ID:        "call_1",
				Name:      tools.NameLookupOrderStatus,
				Arguments: map[string]any{"order_number": "AB123456"},
			}},
			FinishReason: "tool_calls",
		},
		{
			// A second round of tool calls must be ignored.
			Content: "Order AB123456 is on its way.",
			ToolCalls: []providers.ToolCall{{
				ID:   "call_2",
				Name: tools.NameLookupOrderStatus,
			}},
		},
	}}
	b := NewBackend(BackendConfig{Provider: p, Registry: tools.DefaultRegistry(nil)})

	got, err := b.Generate(context.Background(), "where is order AB123456")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Order AB123456 is on its way." {
		t.Errorf("Generate = %q", got)
	}

	// Exactly two provider calls: the initial request and one follow-up.
	if len(p.requests) != 2 {
		t.Fatalf("provider called %d times, want 2", len(p.requests))
	}

	followUp := p.requests[1]
	var toolMsg *providers.Message
	for i := range followUp.Messages {
		if followUp.Messages[i].Role == "tool" {
			toolMsg = &followUp.Messages[i]
		}
	}
	if toolMsg == nil {
		t.Fatal("follow-up request carried no tool message")
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool message references %q, want call_1", toolMsg.ToolCallID)
	}
	if !strings.Contains(toolMsg.Content, `"found":true`) {
		t.Errorf("tool message content = %q, want serialized lookup result", toolMsg.Content)
	}
}

func TestBackendGenerateUnknownToolBecomesError(t *testing.T) {
	p := &scriptedProvider{responses: []providers.ChatResponse{
		{ToolCalls: []providers.ToolCall{{ID: "c1", Name: "no_such_tool"}}},
		{Content: "Sorry, I could not look that up, but I can still help."},
	}}
	b := NewBackend(BackendConfig{Provider: p, Registry: tools.DefaultRegistry(nil)})

	got, err := b.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got == "" {
		t.Fatal("Generate returned empty text")
	}

	followUp := p.requests[1]
	last := followUp.Messages[len(followUp.Messages)-1]
	if !strings.HasPrefix(last.Content, "error:") {
		t.Errorf("unknown tool result = %q, want error string", last.Content)
	}
}

func TestBackendClassifyPropagatesError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("upstream down")}
	b := NewBackend(BackendConfig{Provider: p})

	if _, err := b.Classify(context.Background(), "x"); err == nil {
		t.Error("Classify error = nil, want propagated error")
	}
}

func TestBackendDefaults(t *testing.T) {
	b := NewBackend(BackendConfig{})
	if b.maxTokens != 500 {
		t.Errorf("maxTokens = %d, want 500", b.maxTokens)
	}
	if b.timeout <= 0 {
		t.Error("timeout not defaulted")
	}
}
