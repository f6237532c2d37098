package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/firstlinehq/firstline/internal/pipeline"
	"github.com/firstlinehq/firstline/internal/platforms"
	"github.com/firstlinehq/firstline/internal/store"
)

func testProcessor(t *testing.T) (*Processor, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	engine := pipeline.NewEngine(pipeline.EngineConfig{})
	return NewProcessor(engine, st, platforms.Registry{}), st
}

func TestProcessPersistsExchange(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()

	out, err := p.Process(ctx, Inbound{
		Platform: "tiktok",
		SenderID: "u1",
		Content:  "what is the price of the pro plan",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Intent != pipeline.IntentSales {
		t.Errorf("intent = %v, want sales", out.Intent)
	}

	user, err := st.GetOrCreateUser(ctx, "tiktok", "u1", "")
	if err != nil {
		t.Fatal(err)
	}
	conv, err := st.ActiveConversation(ctx, user.ID, "tiktok")
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := st.History(ctx, conv.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("stored %d messages, want 2", len(msgs))
	}
	if msgs[0].Sender != "user" || msgs[1].Sender != "agent" {
		t.Errorf("senders = %s, %s", msgs[0].Sender, msgs[1].Sender)
	}
	if msgs[1].Intent != "sales" {
		t.Errorf("agent message intent = %q", msgs[1].Intent)
	}
	if msgs[1].PromptVariant == "" {
		t.Error("agent message missing prompt variant")
	}
}

func TestProcessEscalationMarksConversation(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()

	out, err := p.Process(ctx, Inbound{
		Platform: "tiktok",
		SenderID: "u1",
		Content:  "This is ridiculous!!! I was charged twice!!!",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !out.RequiresEscalation {
		t.Fatal("expected escalation")
	}

	user, _ := st.GetOrCreateUser(ctx, "tiktok", "u1", "")

	// The active conversation was escalated, so a fresh one is created here.
	conv, err := st.ActiveConversation(ctx, user.ID, "tiktok")
	if err != nil {
		t.Fatal(err)
	}
	history, _ := st.History(ctx, conv.ID, 10)
	if len(history) != 0 {
		t.Errorf("new conversation has %d messages, want 0", len(history))
	}
}

func TestProcessRejectsEmpty(t *testing.T) {
	p, _ := testProcessor(t)
	if _, err := p.Process(context.Background(), Inbound{Platform: "tiktok", SenderID: "u"}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestProcessVariantSticky(t *testing.T) {
	p, _ := testProcessor(t)
	ctx := context.Background()

	var variants []string
	for i := 0; i < 3; i++ {
		out, err := p.Process(ctx, Inbound{Platform: "tiktok", SenderID: "same-user", Content: "hello there friend"})
		if err != nil {
			t.Fatal(err)
		}
		variants = append(variants, out.PromptVariant)
	}
	if variants[0] != variants[1] || variants[1] != variants[2] {
		t.Errorf("variant drifted across runs: %v", variants)
	}
}

func TestDispatcherProcessesQueue(t *testing.T) {
	p, st := testProcessor(t)
	d := NewDispatcher(p, 2, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		if err := d.Enqueue(Inbound{Platform: "tiktok", SenderID: "u1", Content: "hello there friend"}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	d.Stop()

	sum, err := st.AnalyticsSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.AgentMessages != 5 {
		t.Errorf("agent messages = %d, want 5", sum.AgentMessages)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	p, _ := testProcessor(t)
	d := NewDispatcher(p, 1, 1)
	// Not started: the single slot fills and the second enqueue must fail
	// rather than block.
	if err := d.Enqueue(Inbound{Content: "x"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := d.Enqueue(Inbound{Content: "y"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
}

func TestDispatcherStopWaits(t *testing.T) {
	p, _ := testProcessor(t)
	d := NewDispatcher(p, 2, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Stop()
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
