package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/firstlinehq/firstline/internal/config"
	"github.com/firstlinehq/firstline/internal/service"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Firstline-Signature"

// maxWebhookBody caps webhook payload reads.
const maxWebhookBody = 1 << 20 // 1 MiB

// webhookPayload is the inbound message envelope shared by all platforms.
type webhookPayload struct {
	SenderID    string `json:"sender_id"`
	DisplayName string `json:"display_name,omitempty"`
	Content     string `json:"content"`
}

// handleWebhook ingests one platform message: verify the signature, rate
// limit the sender, enqueue, acknowledge with 202. Processing happens on
// the dispatcher's workers after the response is written.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")

	pcfg, ok := s.platformConfig(platform)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown platform")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(body) > maxWebhookBody {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if pcfg.WebhookSecret != "" {
		if !verifySignature(body, r.Header.Get(signatureHeader), pcfg.WebhookSecret) {
			slog.Warn("webhook signature rejected", "platform", platform)
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if payload.SenderID == "" || payload.Content == "" {
		writeError(w, http.StatusBadRequest, "sender_id and content are required")
		return
	}
	if max := s.cfg.Gateway.MaxMessageChars; max > 0 && len(payload.Content) > max {
		writeError(w, http.StatusRequestEntityTooLarge, "message too long")
		return
	}

	if !s.rateLimiter.Allow(platform + ":" + payload.SenderID) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	err = s.dispatcher.Enqueue(service.Inbound{
		Platform:    platform,
		SenderID:    payload.SenderID,
		DisplayName: payload.DisplayName,
		Content:     payload.Content,
	})
	if errors.Is(err, service.ErrQueueFull) {
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, "queue full")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// platformConfig resolves per-platform settings; only known platforms get a
// webhook endpoint.
func (s *Server) platformConfig(platform string) (config.PlatformConfig, bool) {
	switch platform {
	case "tiktok":
		return s.cfg.Platforms.TikTok, true
	case "linkedin":
		return s.cfg.Platforms.LinkedIn, true
	}
	return config.PlatformConfig{}, false
}

// verifySignature checks a hex HMAC-SHA256 signature in constant time.
func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}
