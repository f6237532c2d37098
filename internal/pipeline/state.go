// Package pipeline implements the decision pipeline that turns one inbound
// customer message into a reply: intent classification, escalation checks,
// tool planning/execution, response generation, and validation, sequenced by
// an explicit state machine.
package pipeline

import "github.com/firstlinehq/firstline/internal/variant"

// Intent is the classification outcome driving template selection.
type Intent string

const (
	IntentSupport Intent = "support"
	IntentSales   Intent = "sales"
	IntentGeneral Intent = "general"
	IntentUrgent  Intent = "urgent"

	// IntentError is only produced by the outermost fault boundary.
	IntentError Intent = "error"
)

// Turn is one prior message in the conversation, most recent last.
type Turn struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Request is the input for one pipeline run.
type Request struct {
	Message string
	History []Turn

	// StickyVariant, when set ("A"/"B"), is the caller's per-user bucket
	// hint. Platform and PlatformUserID enable the profile-fetch tool.
	StickyVariant  string
	Platform       string
	PlatformUserID string
}

// PlannedCall is one advisory tool invocation emitted by the planning stage.
type PlannedCall struct {
	Name string
	Args map[string]any
}

// State is the record threaded through every stage of one run. Stages append
// and refine; no stage erases what an earlier stage wrote, except the
// validation stage's permitted response rewrite.
type State struct {
	// Immutable inputs.
	Message        string
	History        []Turn
	StickyVariant  string
	Platform       string
	PlatformUserID string

	// Set once by classify, read-only after.
	Language      string
	PromptVariant variant.Variant

	Intent               Intent
	ClassificationReason string

	SentimentScore     float64
	RequiresEscalation bool
	EscalationReason   string

	FormattedContext string

	PlannedCalls []PlannedCall
	ToolResults  map[string]any

	Response      string
	ResponseValid bool
}

func newState(req Request) *State {
	return &State{
		Message:        req.Message,
		History:        req.History,
		StickyVariant:  req.StickyVariant,
		Platform:       req.Platform,
		PlatformUserID: req.PlatformUserID,
		Intent:         IntentGeneral,
		ResponseValid:  true,
	}
}

// escalate marks the run for human handling. Escalation is sticky within a
// run: the first reason wins and the flag never reverts.
func (s *State) escalate(reason string) {
	if !s.RequiresEscalation {
		s.RequiresEscalation = true
		s.EscalationReason = reason
	}
}

// Outcome is the finalized result of a pipeline run.
type Outcome struct {
	Response           string   `json:"response"`
	Intent             Intent   `json:"intent"`
	RequiresEscalation bool     `json:"requires_escalation"`
	EscalationReason   string   `json:"escalation_reason,omitempty"`
	SentimentScore     float64  `json:"sentiment_score"`
	Language           string   `json:"language"`
	PromptVariant      string   `json:"prompt_variant"`
	Metadata           Metadata `json:"metadata"`
}

// Metadata carries diagnostic fields alongside the reply.
type Metadata struct {
	ClassificationReason string `json:"classification_reason,omitempty"`
	ResponseValid        bool   `json:"response_valid"`
	Error                string `json:"error,omitempty"`
}

func (s *State) outcome() Outcome {
	return Outcome{
		Response:           s.Response,
		Intent:             s.Intent,
		RequiresEscalation: s.RequiresEscalation,
		EscalationReason:   s.EscalationReason,
		SentimentScore:     s.SentimentScore,
		Language:           s.Language,
		PromptVariant:      string(s.PromptVariant),
		Metadata: Metadata{
			ClassificationReason: s.ClassificationReason,
			ResponseValid:        s.ResponseValid,
		},
	}
}
