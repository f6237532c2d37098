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

const linkedinAPIBase = "https://api.linkedin.com/v2"

// LinkedInClient sends messages through the LinkedIn messaging API. Mock
// mode mirrors TikTokClient: no credentials means logged sends and canned
// profiles.
type LinkedInClient struct {
	accessToken string
	apiBase     string
	client      *http.Client
	limiter     *rate.Limiter
}

func NewLinkedInClient(accessToken string, rpm int) *LinkedInClient {
	if rpm <= 0 {
		rpm = 100
	}
	return &LinkedInClient{
		accessToken: accessToken,
		apiBase:     linkedinAPIBase,
		client:      &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

func (c *LinkedInClient) Name() string { return "linkedin" }

func (c *LinkedInClient) mock() bool { return c.accessToken == "" }

func (c *LinkedInClient) SendMessage(ctx context.Context, conversationID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("linkedin: rate wait: %w", err)
	}

	if c.mock() {
		slog.Info("linkedin send (mock)", "conversation", conversationID, "chars", len(text))
		return nil
	}

	body, _ := json.Marshal(map[string]any{
		"recipients": []string{conversationID},
		"body":       text,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiBase+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("linkedin: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("linkedin: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("linkedin: send HTTP %d: %s", resp.StatusCode, b)
	}
	return nil
}

func (c *LinkedInClient) Profile(ctx context.Context, userID string) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("linkedin: rate wait: %w", err)
	}

	if c.mock() {
		return map[string]any{
			"user_id":   userID,
			"full_name": "LinkedIn Member",
			"headline":  "Professional",
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.apiBase+"/people/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin: profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("linkedin: profile HTTP %d: %s", resp.StatusCode, b)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("linkedin: decode profile: %w", err)
	}
	return data, nil
}
