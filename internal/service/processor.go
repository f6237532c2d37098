package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firstlinehq/firstline/internal/pipeline"
	"github.com/firstlinehq/firstline/internal/platforms"
	"github.com/firstlinehq/firstline/internal/store"
	"github.com/firstlinehq/firstline/internal/variant"
)

// ErrEmptyMessage rejects inbound messages with no content.
var ErrEmptyMessage = errors.New("empty message")

// historyLimit caps the turns handed to the pipeline per run.
const historyLimit = 20

// Inbound is one message received from a platform webhook.
type Inbound struct {
	Platform    string
	SenderID    string
	DisplayName string
	Content     string
}

// Processor runs inbound messages through the pipeline and persists the
// exchange. Safe for concurrent use; per-conversation ordering is the
// dispatcher's job.
type Processor struct {
	engine  *pipeline.Engine
	store   *store.Store
	clients platforms.Registry
}

func NewProcessor(engine *pipeline.Engine, st *store.Store, clients platforms.Registry) *Processor {
	return &Processor{engine: engine, store: st, clients: clients}
}

// Process handles one inbound message end to end: resolve the user and
// conversation, run the pipeline against the pre-existing history, persist
// both turns, and deliver the reply back to the platform.
func (p *Processor) Process(ctx context.Context, in Inbound) (*pipeline.Outcome, error) {
	if in.Content == "" {
		return nil, ErrEmptyMessage
	}

	user, err := p.store.GetOrCreateUser(ctx, in.Platform, in.SenderID, in.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	conv, err := p.store.ActiveConversation(ctx, user.ID, in.Platform)
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	// History is read before the new message is stored: the pipeline sees
	// the conversation as it was when the message arrived.
	history, err := p.store.History(ctx, conv.ID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	sticky, err := p.store.StickyVariant(ctx, user.ID, variant.AssignString)
	if err != nil {
		slog.Warn("sticky variant lookup failed", "user", user.ID, "error", err)
	}

	if err := p.store.AppendMessage(ctx, &store.Message{
		ConversationID: conv.ID,
		Sender:         "user",
		Content:        in.Content,
	}); err != nil {
		return nil, fmt.Errorf("store inbound: %w", err)
	}

	start := time.Now()
	out := p.engine.Run(ctx, pipeline.Request{
		Message:        in.Content,
		History:        toTurns(history),
		StickyVariant:  sticky,
		Platform:       in.Platform,
		PlatformUserID: in.SenderID,
	})
	elapsed := time.Since(start).Milliseconds()

	if err := p.store.AppendMessage(ctx, &store.Message{
		ConversationID: conv.ID,
		Sender:         "agent",
		Content:        out.Response,
		Intent:         string(out.Intent),
		SentimentScore: out.SentimentScore,
		PromptVariant:  out.PromptVariant,
		ResponseTimeMs: elapsed,
	}); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}

	if out.RequiresEscalation {
		if err := p.store.MarkEscalated(ctx, conv.ID, out.EscalationReason); err != nil {
			slog.Error("escalation persist failed", "conversation", conv.ID, "error", err)
		}
	}

	p.deliver(ctx, in, out.Response)

	if err := p.store.RecordMetric(ctx, "pipeline.response_time_ms", float64(elapsed),
		string(out.Intent)); err != nil {
		slog.Warn("metric record failed", "error", err)
	}

	return &out, nil
}

// deliver sends the reply back to the originating platform. Delivery
// failures are logged, never propagated: the exchange is already persisted.
func (p *Processor) deliver(ctx context.Context, in Inbound, reply string) {
	client := p.clients.Get(in.Platform)
	if client == nil {
		slog.Debug("no client for platform, reply not delivered", "platform", in.Platform)
		return
	}
	if err := client.SendMessage(ctx, in.SenderID, reply); err != nil {
		slog.Error("reply delivery failed", "platform", in.Platform, "error", err)
	}
}

func toTurns(msgs []store.Message) []pipeline.Turn {
	turns := make([]pipeline.Turn, len(msgs))
	for i, m := range msgs {
		turns[i] = pipeline.Turn{Sender: m.Sender, Content: m.Content}
	}
	return turns
}
