package store

import (
	"time"
)

// Conversation statuses.
const (
	StatusActive    = "active"
	StatusEscalated = "escalated"
	StatusClosed    = "closed"
)

// User is a platform identity. The same person on two platforms is two
// users.
type User struct {
	ID             string
	Platform       string
	PlatformUserID string
	DisplayName    string
	CreatedAt      time.Time
}

// Conversation groups the messages exchanged with one user.
type Conversation struct {
	ID               string
	UserID           string
	Platform         string
	Status           string
	EscalationReason string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Message is one turn of a conversation. Pipeline fields (intent, sentiment,
// variant, response time) are populated on agent turns only.
type Message struct {
	ID             string
	ConversationID string
	Sender         string // "user" or "agent"
	Content        string
	Intent         string
	SentimentScore float64
	PromptVariant  string
	ResponseTimeMs int64
	CreatedAt      time.Time
}

// Summary is the aggregate view served by the analytics API.
type Summary struct {
	TotalUsers        int64   `json:"total_users"`
	TotalMessages     int64   `json:"total_messages"`
	AgentMessages     int64   `json:"agent_messages"`
	Escalations       int64   `json:"escalations"`
	EscalationRate    float64 `json:"escalation_rate"`
	AvgSentiment      float64 `json:"avg_sentiment"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// Metric is one recorded measurement, used by the rollup job.
type Metric struct {
	Name      string
	Value     float64
	Labels    string
	CreatedAt time.Time
}
