package telemetry

import (
	"context"
	"testing"

	"github.com/firstlinehq/firstline/internal/config"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TelemetryConfig{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitRejectsUnknownProtocol(t *testing.T) {
	_, err := Init(context.Background(), config.TelemetryConfig{
		Enabled:  true,
		Protocol: "carrier-pigeon",
	})
	if err == nil {
		t.Error("expected error for unknown protocol")
	}
}
