package store

import (
	"context"
	"fmt"
)

// AnalyticsSummary aggregates the whole database into one Summary.
func (s *Store) AnalyticsSummary(ctx context.Context) (*Summary, error) {
	var sum Summary

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&sum.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&sum.TotalMessages)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(sentiment_score), 0),
		        COALESCE(AVG(response_time_ms), 0)
		 FROM messages WHERE sender = 'agent'`).
		Scan(&sum.AgentMessages, &sum.AvgSentiment, &sum.AvgResponseTimeMs)
	if err != nil {
		return nil, fmt.Errorf("agent message stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations WHERE status = ?`, StatusEscalated).
		Scan(&sum.Escalations)
	if err != nil {
		return nil, fmt.Errorf("count escalations: %w", err)
	}

	if sum.AgentMessages > 0 {
		sum.EscalationRate = float64(sum.Escalations) / float64(sum.AgentMessages)
	}
	return &sum, nil
}

// IntentDistribution returns agent message counts grouped by intent.
func (s *Store) IntentDistribution(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT intent, COUNT(*) FROM messages
		 WHERE sender = 'agent' AND intent != ''
		 GROUP BY intent`)
	if err != nil {
		return nil, fmt.Errorf("intent distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int64)
	for rows.Next() {
		var intent string
		var count int64
		if err := rows.Scan(&intent, &count); err != nil {
			return nil, err
		}
		dist[intent] = count
	}
	return dist, rows.Err()
}

// VariantDistribution returns sticky assignment counts per variant, for
// monitoring A/B balance.
func (s *Store) VariantDistribution(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variant, COUNT(*) FROM variant_assignments GROUP BY variant`)
	if err != nil {
		return nil, fmt.Errorf("variant distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int64)
	for rows.Next() {
		var variant string
		var count int64
		if err := rows.Scan(&variant, &count); err != nil {
			return nil, err
		}
		dist[variant] = count
	}
	return dist, rows.Err()
}
