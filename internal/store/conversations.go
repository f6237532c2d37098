package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetOrCreateUser returns the user for a platform identity, creating it on
// first contact. Concurrent first contacts race on the unique index; the
// loser re-reads the winner's row.
func (s *Store) GetOrCreateUser(ctx context.Context, platform, platformUserID, displayName string) (*User, error) {
	user, err := s.findUser(ctx, platform, platformUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	id := uuid.Must(uuid.NewV7()).String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, platform, platform_user_id, display_name, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (platform, platform_user_id) DO NOTHING`,
		id, platform, platformUserID, displayName, now)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.findUser(ctx, platform, platformUserID)
}

func (s *Store) findUser(ctx context.Context, platform, platformUserID string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, platform, platform_user_id, display_name, created_at
		 FROM users WHERE platform = ? AND platform_user_id = ?`,
		platform, platformUserID).
		Scan(&u.ID, &u.Platform, &u.PlatformUserID, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ActiveConversation returns the user's active conversation, creating one if
// none exists. Escalated and closed conversations are never reused.
func (s *Store) ActiveConversation(ctx context.Context, userID, platform string) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, platform, status, escalation_reason, created_at, updated_at
		 FROM conversations WHERE user_id = ? AND status = ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, StatusActive).
		Scan(&c.ID, &c.UserID, &c.Platform, &c.Status, &c.EscalationReason, &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().UTC()
	c = Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Platform:  platform,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, platform, status, escalation_reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, '', ?, ?)`,
		c.ID, c.UserID, c.Platform, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return &c, nil
}

// AppendMessage stores one turn and bumps the conversation's updated_at.
func (s *Store) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.Must(uuid.NewV7()).String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender, content, intent, sentiment_score, prompt_variant, response_time_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Sender, msg.Content, msg.Intent,
		msg.SentimentScore, msg.PromptVariant, msg.ResponseTimeMs, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		msg.CreatedAt, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// History returns the conversation's most recent turns in chronological
// order.
func (s *Store) History(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, content, intent, sentiment_score, prompt_variant, response_time_ms, created_at
		 FROM messages WHERE conversation_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.Intent,
			&m.SentimentScore, &m.PromptVariant, &m.ResponseTimeMs, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse newest-first into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkEscalated flags a conversation for human handoff. The first recorded
// reason is kept.
func (s *Store) MarkEscalated(ctx context.Context, conversationID, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations
		 SET status = ?,
		     escalation_reason = CASE WHEN escalation_reason = '' THEN ? ELSE escalation_reason END,
		     updated_at = ?
		 WHERE id = ?`,
		StatusEscalated, reason, time.Now().UTC(), conversationID)
	if err != nil {
		return fmt.Errorf("mark escalated: %w", err)
	}
	return nil
}

// CloseConversation marks a conversation closed.
func (s *Store) CloseConversation(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET status = ?, updated_at = ? WHERE id = ?`,
		StatusClosed, time.Now().UTC(), conversationID)
	if err != nil {
		return fmt.Errorf("close conversation: %w", err)
	}
	return nil
}
