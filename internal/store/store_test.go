package store

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u1, err := s.GetOrCreateUser(ctx, "tiktok", "abc", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	u2, err := s.GetOrCreateUser(ctx, "tiktok", "abc", "Alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u1.ID != u2.ID {
		t.Errorf("same identity got two IDs: %s vs %s", u1.ID, u2.ID)
	}

	// Same platform user ID on another platform is a different user.
	u3, err := s.GetOrCreateUser(ctx, "linkedin", "abc", "Alice")
	if err != nil {
		t.Fatalf("other platform: %v", err)
	}
	if u3.ID == u1.ID {
		t.Error("cross-platform identity collapsed into one user")
	}
}

func TestConversationLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, err := s.GetOrCreateUser(ctx, "tiktok", "u1", "")
	if err != nil {
		t.Fatal(err)
	}

	c1, err := s.ActiveConversation(ctx, u.ID, "tiktok")
	if err != nil {
		t.Fatalf("ActiveConversation: %v", err)
	}
	c2, err := s.ActiveConversation(ctx, u.ID, "tiktok")
	if err != nil {
		t.Fatal(err)
	}
	if c1.ID != c2.ID {
		t.Error("active conversation not reused")
	}

	if err := s.MarkEscalated(ctx, c1.ID, "Urgent issue requiring immediate human attention"); err != nil {
		t.Fatalf("MarkEscalated: %v", err)
	}

	// Escalated conversations are not reused.
	c3, err := s.ActiveConversation(ctx, u.ID, "tiktok")
	if err != nil {
		t.Fatal(err)
	}
	if c3.ID == c1.ID {
		t.Error("escalated conversation reused as active")
	}
}

func TestEscalationReasonFirstWins(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tiktok", "u1", "")
	c, _ := s.ActiveConversation(ctx, u.ID, "tiktok")

	if err := s.MarkEscalated(ctx, c.ID, "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkEscalated(ctx, c.ID, "second"); err != nil {
		t.Fatal(err)
	}

	var reason string
	err := s.db.QueryRowContext(ctx,
		`SELECT escalation_reason FROM conversations WHERE id = ?`, c.ID).Scan(&reason)
	if err != nil {
		t.Fatal(err)
	}
	if reason != "first" {
		t.Errorf("escalation_reason = %q, want first", reason)
	}
}

func TestHistoryChronological(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tiktok", "u1", "")
	c, _ := s.ActiveConversation(ctx, u.ID, "tiktok")

	for i, content := range []string{"one", "two", "three"} {
		msg := &Message{ConversationID: c.ID, Sender: "user", Content: content}
		if err := s.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	msgs, err := s.History(ctx, c.ID, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("history length = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "two" || msgs[1].Content != "three" {
		t.Errorf("history = [%s, %s], want [two, three]", msgs[0].Content, msgs[1].Content)
	}
}

func TestStickyVariantStable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tiktok", "u1", "")

	calls := 0
	assign := func(string) string {
		calls++
		return "B"
	}

	v1, err := s.StickyVariant(ctx, u.ID, assign)
	if err != nil {
		t.Fatalf("StickyVariant: %v", err)
	}
	// A different assignment on the second call must lose to the stored one.
	v2, err := s.StickyVariant(ctx, u.ID, func(string) string { return "A" })
	if err != nil {
		t.Fatal(err)
	}
	if v1 != "B" || v2 != "B" {
		t.Errorf("variants = %s, %s, want B, B", v1, v2)
	}
	if calls != 1 {
		t.Errorf("assign called %d times, want 1", calls)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, _ := s.GetOrCreateUser(ctx, "tiktok", "u1", "")
	c, _ := s.ActiveConversation(ctx, u.ID, "tiktok")

	s.AppendMessage(ctx, &Message{ConversationID: c.ID, Sender: "user", Content: "hi"})
	s.AppendMessage(ctx, &Message{
		ConversationID: c.ID, Sender: "agent", Content: "hello",
		Intent: "general", SentimentScore: 0.5, PromptVariant: "A", ResponseTimeMs: 120,
	})
	s.MarkEscalated(ctx, c.ID, "test")

	sum, err := s.AnalyticsSummary(ctx)
	if err != nil {
		t.Fatalf("AnalyticsSummary: %v", err)
	}
	if sum.TotalUsers != 1 || sum.TotalMessages != 2 || sum.AgentMessages != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Escalations != 1 || sum.EscalationRate != 1.0 {
		t.Errorf("escalations = %d rate = %v", sum.Escalations, sum.EscalationRate)
	}

	dist, err := s.IntentDistribution(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dist["general"] != 1 {
		t.Errorf("intent distribution = %v", dist)
	}
}
