package analyze

import (
	"regexp"
	"strings"
)

// Order-number formats, checked in priority order: two letters + 6-10 digits
// (AB123456), a bare 8-12 digit sequence, then an explicit "order: XXX"
// reference. First match wins.
var orderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)#?\b[A-Z]{2}\d{6,10}\b`),
	regexp.MustCompile(`\b\d{8,12}\b`),
	regexp.MustCompile(`(?i)order[:\s]+([A-Z0-9-]+)`),
}

// ExtractOrderNumber pulls an order number out of free text, or returns the
// empty string when none is present.
func ExtractOrderNumber(text string) string {
	for i, pat := range orderPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// The "order:" pattern captures the number itself; the others match
		// the full token.
		if i == 2 {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(strings.Trim(m[0], "#"))
	}
	return ""
}
