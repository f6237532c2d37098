package store

import (
	"context"
	"fmt"
	"time"
)

// StickyVariant returns the user's persisted prompt variant, assigning one
// via assign on first call. INSERT OR IGNORE makes the first writer win, so
// concurrent first messages from the same user agree on the variant.
func (s *Store) StickyVariant(ctx context.Context, userID string, assign func(userID string) string) (string, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO variant_assignments (user_id, variant, created_at)
		 VALUES (?, ?, ?)`,
		userID, assign(userID), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("assign variant: %w", err)
	}

	var v string
	err = s.db.QueryRowContext(ctx,
		`SELECT variant FROM variant_assignments WHERE user_id = ?`, userID).Scan(&v)
	if err != nil {
		return "", fmt.Errorf("read variant: %w", err)
	}
	return v, nil
}

// RecordMetric appends one measurement for the analytics rollup.
func (s *Store) RecordMetric(ctx context.Context, name string, value float64, labels string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO metrics (name, value, labels, created_at) VALUES (?, ?, ?, ?)`,
		name, value, labels, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record metric: %w", err)
	}
	return nil
}
