package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const tiktokAPIBase = "https://open.tiktokapis.com/v2"

// TikTokClient sends direct messages through the TikTok business API.
// Without credentials it runs in mock mode: sends are logged and profile
// lookups return canned data, which keeps local development working.
type TikTokClient struct {
	accessToken string
	apiBase     string
	client      *http.Client
	limiter     *rate.Limiter
}

// NewTikTokClient creates a TikTok client. rpm bounds outbound requests per
// minute (the platform enforces its own limit server-side; this keeps us
// under it).
func NewTikTokClient(accessToken string, rpm int) *TikTokClient {
	if rpm <= 0 {
		rpm = 60
	}
	return &TikTokClient{
		accessToken: accessToken,
		apiBase:     tiktokAPIBase,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

func (c *TikTokClient) Name() string { return "tiktok" }

func (c *TikTokClient) mock() bool { return c.accessToken == "" }

func (c *TikTokClient) SendMessage(ctx context.Context, conversationID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tiktok: rate wait: %w", err)
	}

	if c.mock() {
		slog.Info("tiktok send (mock)", "conversation", conversationID, "chars", len(text))
		return nil
	}

	body, _ := json.Marshal(map[string]any{
		"conversation_id": conversationID,
		"text":            text,
	})
	return c.post(ctx, "/message/send/", body)
}

func (c *TikTokClient) Profile(ctx context.Context, userID string) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tiktok: rate wait: %w", err)
	}

	if c.mock() {
		return map[string]any{
			"user_id":        userID,
			"username":       "tiktok_user_" + userID,
			"display_name":   "TikTok User",
			"follower_count": 0,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.apiBase+"/user/info/?user_id="+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("tiktok: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiktok: profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tiktok: profile HTTP %d: %s", resp.StatusCode, b)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("tiktok: decode profile: %w", err)
	}
	return data, nil
}

func (c *TikTokClient) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tiktok: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tiktok: send HTTP %d: %s", resp.StatusCode, b)
	}
	return nil
}
