package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"

	"github.com/firstlinehq/firstline/internal/store"
)

// Rollup periodically snapshots the analytics summary into the metrics
// table, driven by a cron expression.
type Rollup struct {
	store *store.Store
	expr  string
}

func NewRollup(st *store.Store, cronExpr string) (*Rollup, error) {
	if cronExpr == "" {
		cronExpr = "0 * * * *"
	}
	if !gronx.New().IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid cron expression %q", cronExpr)
	}
	return &Rollup{store: st, expr: cronExpr}, nil
}

// Run ticks once a minute and fires when the cron expression is due. Blocks
// until ctx is cancelled.
func (r *Rollup) Run(ctx context.Context) {
	slog.Info("analytics rollup started", "cron", r.expr)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := gronx.New().IsDue(r.expr, now)
			if err != nil {
				slog.Error("cron evaluation failed", "expr", r.expr, "error", err)
				continue
			}
			if due {
				r.snapshot(ctx)
			}
		}
	}
}

func (r *Rollup) snapshot(ctx context.Context) {
	sum, err := r.store.AnalyticsSummary(ctx)
	if err != nil {
		slog.Error("rollup summary failed", "error", err)
		return
	}

	record := func(name string, value float64) {
		if err := r.store.RecordMetric(ctx, name, value, "rollup"); err != nil {
			slog.Warn("rollup metric failed", "name", name, "error", err)
		}
	}
	record("rollup.total_messages", float64(sum.TotalMessages))
	record("rollup.escalation_rate", sum.EscalationRate)
	record("rollup.avg_sentiment", sum.AvgSentiment)
	record("rollup.avg_response_time_ms", sum.AvgResponseTimeMs)

	if data, err := json.Marshal(sum); err == nil {
		slog.Info("analytics rollup", "summary", string(data))
	}
}
