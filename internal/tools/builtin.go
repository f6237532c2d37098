package tools

import (
	"context"

	"github.com/firstlinehq/firstline/internal/analyze"
)

// Stable tool names. The pipeline plans calls against these and the
// run_tools stage keys its results by them.
const (
	NameDetectLanguage     = "detect_language"
	NameExtractOrderNumber = "extract_order_number"
	NameSentiment          = "sentiment"
	NameLookupOrderStatus  = "lookup_order_status"
	NameFetchProfile       = "fetch_profile"
)

func textSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The text to analyze",
			},
		},
		"required": []string{"text"},
	}
}

// LanguageTool wraps analyze.DetectLanguage.
type LanguageTool struct{}

func (LanguageTool) Name() string { return NameDetectLanguage }
func (LanguageTool) Description() string {
	return "Detect the language of the given text. Returns a two-letter code like 'en', 'es', 'fr', 'de'."
}
func (LanguageTool) Parameters() map[string]any { return textSchema() }
func (LanguageTool) Execute(_ context.Context, args map[string]any) (any, error) {
	return analyze.DetectLanguage(stringArg(args, "text")), nil
}

// OrderNumberTool wraps analyze.ExtractOrderNumber.
type OrderNumberTool struct{}

func (OrderNumberTool) Name() string { return NameExtractOrderNumber }
func (OrderNumberTool) Description() string {
	return "Extract an order number from text if present; returns an empty string when not found."
}
func (OrderNumberTool) Parameters() map[string]any { return textSchema() }
func (OrderNumberTool) Execute(_ context.Context, args map[string]any) (any, error) {
	return analyze.ExtractOrderNumber(stringArg(args, "text")), nil
}

// SentimentTool wraps analyze.Sentiment.
type SentimentTool struct{}

func (SentimentTool) Name() string { return NameSentiment }
func (SentimentTool) Description() string {
	return "Compute a sentiment score in [-1.0, 1.0] for the text."
}
func (SentimentTool) Parameters() map[string]any { return textSchema() }
func (SentimentTool) Execute(_ context.Context, args map[string]any) (any, error) {
	return analyze.Sentiment(stringArg(args, "text")), nil
}
