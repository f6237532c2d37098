package analyze

import (
	"strings"
	"unicode"
)

var urgentKeywords = []string{
	"ridiculous", "unacceptable", "immediately", "asap", "urgent",
	"lawsuit", "lawyer", "legal action", "complain", "manager",
	"supervisor", "charged twice", "unauthorized", "fraud",
}

// Urgent reports whether a message should skip automated handling and go
// straight to a human. Triggers: three or more exclamation marks, shouting
// (>50% uppercase in messages longer than 10 chars), any urgency keyword, or
// a sentiment at -0.5 or below.
func Urgent(text string) bool {
	if strings.Count(text, "!") >= 3 {
		return true
	}

	var letters, upper int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 0 && len(text) > 10 && float64(upper)/float64(letters) > 0.5 {
		return true
	}

	lower := strings.ToLower(text)
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return Sentiment(text) <= -0.5
}
