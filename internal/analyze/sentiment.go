// Package analyze holds the stateless text scoring used by the reply
// pipeline: sentiment, urgency, language detection, and order-number
// extraction. Everything here is pure and total, with no I/O and no failure modes.
package analyze

import (
	"math"
	"strings"
)

var positiveWords = []string{
	"thank", "thanks", "great", "excellent", "good", "love", "happy",
	"pleased", "wonderful", "fantastic", "perfect", "amazing",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "worst", "hate", "angry",
	"frustrated", "disappointed", "unacceptable", "ridiculous", "pathetic",
}

var distressIndicators = []string{
	"!!!", "asap", "immediately", "urgent", "emergency", "critical",
}

// Sentiment scores free text in [-1.0, 1.0]: negative values for angry or
// distressed messages, positive for grateful ones. The score is the indicator
// balance normalized by word count, rounded to two decimals.
func Sentiment(text string) float64 {
	lower := strings.ToLower(text)

	var positive, negative, distress int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	for _, w := range distressIndicators {
		if strings.Contains(lower, w) {
			distress++
		}
	}

	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}

	score := float64(positive-negative-distress) / float64(words)
	score = math.Max(-1.0, math.Min(1.0, score))

	return math.Round(score*100) / 100
}
