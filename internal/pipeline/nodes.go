package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/firstlinehq/firstline/internal/analyze"
	"github.com/firstlinehq/firstline/internal/providers"
	"github.com/firstlinehq/firstline/internal/tools"
	"github.com/firstlinehq/firstline/internal/variant"
)

// classify detects language, resolves the prompt variant, and assigns the
// intent. Urgent messages short-circuit: no backend call, no rule matching.
func (e *Engine) classify(ctx context.Context, st *State) {
	st.Language = analyze.DetectLanguage(st.Message)
	st.PromptVariant = variant.Resolve(e.variantMode, st.StickyVariant, st.Language)

	if analyze.Urgent(st.Message) {
		slog.Warn("urgent message detected", "preview", preview(st.Message))
		st.Intent = IntentUrgent
		st.RequiresEscalation = true
		return
	}

	text, err := e.backend.Classify(ctx, fmt.Sprintf(classificationPrompt, st.Message, formatContext(st.History)))
	if err != nil {
		if !isUnavailable(err) {
			slog.Error("backend classification failed", "error", err)
		}
		st.Intent = ruleBasedIntent(st.Message)
		return
	}

	if intent, ok := parseClassification(text); ok {
		st.Intent = intent
		st.ClassificationReason = text
	} else {
		st.Intent = ruleBasedIntent(st.Message)
	}
}

// parseClassification extracts the intent from a "CLASSIFICATION: <x>" line.
func parseClassification(text string) (Intent, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "CLASSIFICATION:") {
			continue
		}
		_, value, _ := strings.Cut(line, ":")
		switch Intent(strings.ToLower(strings.TrimSpace(value))) {
		case IntentSupport:
			return IntentSupport, true
		case IntentSales:
			return IntentSales, true
		case IntentGeneral:
			return IntentGeneral, true
		case IntentUrgent:
			return IntentUrgent, true
		}
		return "", false
	}
	return "", false
}

var salesKeywords = []string{"price", "pricing", "cost", "buy", "purchase", "plan", "enterprise", "demo"}
var supportKeywords = []string{"order", "tracking", "issue", "problem", "help", "support", "not working"}

// ruleBasedIntent is the keyword fallback classifier: sales keywords are
// checked before support, anything else is general.
func ruleBasedIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, kw := range salesKeywords {
		if strings.Contains(lower, kw) {
			return IntentSales
		}
	}
	for _, kw := range supportKeywords {
		if strings.Contains(lower, kw) {
			return IntentSupport
		}
	}
	return IntentGeneral
}

// retrieveContext formats the trailing turns of history. Pure, cannot fail.
func (e *Engine) retrieveContext(st *State) {
	st.FormattedContext = formatContext(st.History)
}

// formatContext joins the last 3 turns as "SENDER: content" lines.
func formatContext(history []Turn) string {
	if len(history) == 0 {
		return noContextSentinel
	}

	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	parts := make([]string, len(recent))
	for i, turn := range recent {
		parts[i] = strings.ToUpper(turn.Sender) + ": " + turn.Content
	}
	return strings.Join(parts, "\n")
}

// checkEscalation always scores sentiment, then decides escalation: urgent
// intent first, then the sentiment threshold. An earlier escalation is never
// reverted.
func (e *Engine) checkEscalation(st *State) {
	st.SentimentScore = analyze.Sentiment(st.Message)

	if st.Intent == IntentUrgent {
		st.RequiresEscalation = true
		if st.EscalationReason == "" {
			st.EscalationReason = reasonUrgent
		}
		return
	}

	if st.SentimentScore <= -0.6 {
		st.escalate(reasonNegative)
	}
}

// generateEscalated produces the fixed human-handoff reply. This branch ends
// the run without validation.
func (e *Engine) generateEscalated(st *State) {
	st.Response = escalationMessage
	st.RequiresEscalation = true
}

// planTools emits advisory tool calls: order-number extraction for support
// or order-flavoured messages, and a profile fetch when the caller supplied
// platform identity hints. An empty plan is not an error.
func (e *Engine) planTools(st *State) {
	lower := strings.ToLower(st.Message)

	if st.Intent == IntentSupport || strings.Contains(lower, "order") || strings.Contains(lower, "tracking") {
		st.PlannedCalls = append(st.PlannedCalls, PlannedCall{
			Name: tools.NameExtractOrderNumber,
			Args: map[string]any{"text": st.Message},
		})
	}

	if st.Platform != "" && st.PlatformUserID != "" {
		st.PlannedCalls = append(st.PlannedCalls, PlannedCall{
			Name: tools.NameFetchProfile,
			Args: map[string]any{"platform": st.Platform, "user_id": st.PlatformUserID},
		})
	}
}

// runTools executes the planned calls sequentially in list order. A failing
// call records an error result for that tool only; the rest still run. A
// successful order-number extraction chains a status lookup in the same
// pass.
func (e *Engine) runTools(ctx context.Context, st *State) {
	st.ToolResults = make(map[string]any, len(st.PlannedCalls))

	for _, call := range st.PlannedCalls {
		result, err := e.registry.Execute(ctx, call.Name, call.Args)
		if err != nil {
			slog.Warn("tool failed", "tool", call.Name, "error", err)
			st.ToolResults[call.Name] = map[string]any{"error": err.Error()}
			continue
		}
		st.ToolResults[call.Name] = result

		if call.Name == tools.NameExtractOrderNumber {
			if orderNumber, _ := result.(string); orderNumber != "" {
				status, err := e.registry.Execute(ctx, tools.NameLookupOrderStatus,
					map[string]any{"order_number": orderNumber})
				if err != nil {
					st.ToolResults[tools.NameLookupOrderStatus] = map[string]any{"error": err.Error()}
				} else {
					st.ToolResults[tools.NameLookupOrderStatus] = status
				}
			}
		}
	}
}

// resolveWithTools generates the reply with the tool results appended to the
// ordinary prompt. Backend failure falls back exactly like generateResponse.
func (e *Engine) resolveWithTools(ctx context.Context, st *State) {
	prompt := e.buildGenerationPrompt(st)

	if data, err := json.Marshal(st.ToolResults); err == nil {
		prompt += "\n\nTool results (JSON):\n" + string(data) +
			"\nUse this data in your reply if it is relevant to the customer's question."
	}

	text, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		if !isUnavailable(err) {
			slog.Error("backend generation with tools failed", "error", err)
		}
		text = mockResponse(st.Intent)
	}

	st.Response = adjustTone(text, st.SentimentScore)
}

// generateResponse produces the reply for the normal branch. Escalated runs
// get the fixed handoff message even if they reach here.
func (e *Engine) generateResponse(ctx context.Context, st *State) {
	if st.Intent == IntentUrgent || st.RequiresEscalation {
		st.Response = escalationMessage
		st.RequiresEscalation = true
		return
	}

	text, err := e.backend.Generate(ctx, e.buildGenerationPrompt(st))
	if err != nil {
		if !isUnavailable(err) {
			slog.Error("backend generation failed", "error", err)
		}
		text = mockResponse(st.Intent)
	}

	st.Response = adjustTone(text, st.SentimentScore)
}

// buildGenerationPrompt selects the (intent, variant) template, general/A as
// the ultimate default, and prepends a language directive for non-English
// messages.
func (e *Engine) buildGenerationPrompt(st *State) string {
	tmpl, ok := responseTemplates[variant.Key(string(st.Intent), string(st.PromptVariant))]
	if !ok {
		tmpl = responseTemplates["general/A"]
	}

	prompt := fmt.Sprintf(tmpl, st.Message, st.FormattedContext)
	if st.Language != "" && st.Language != "en" {
		prompt = fmt.Sprintf("Respond in language %q.\n\n", st.Language) + prompt
	}
	return prompt
}

func mockResponse(intent Intent) string {
	if r, ok := mockResponses[intent]; ok {
		return r
	}
	return mockResponses[IntentGeneral]
}

// adjustTone prepends the apology prefix for strongly negative sentiment.
// Idempotent: an already-prefixed reply is returned unchanged.
func adjustTone(text string, sentiment float64) string {
	if sentiment > -0.6 {
		return text
	}
	if strings.HasPrefix(text, apologyPrefix) {
		return text
	}
	return apologyPrefix + text
}

// validateResponse accepts replies strictly between 10 and 1000 characters
// that are non-blank after trimming. Anything else is replaced with the
// fixed fallback and the run is escalated.
func (e *Engine) validateResponse(st *State) {
	n := utf8.RuneCountInString(st.Response)
	valid := n > 10 && n < 1000 && strings.TrimSpace(st.Response) != ""
	st.ResponseValid = valid

	if !valid {
		slog.Warn("response validation failed", "chars", n)
		st.Response = fallbackResponse
		st.RequiresEscalation = true
		if st.EscalationReason == "" {
			st.EscalationReason = reasonValidation
		}
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, providers.ErrUnavailable)
}

func preview(s string) string {
	if len(s) > 50 {
		return s[:50] + "..."
	}
	return s
}
