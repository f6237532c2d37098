package analyze

import "strings"

// languageMarkers are high-frequency function words per language. Detection
// is a plain vote count over whitespace-separated tokens; the result only
// steers a "respond in language X" prompt directive.
var languageMarkers = []struct {
	code  string
	words map[string]bool
}{
	{"es", map[string]bool{
		"hola": true, "gracias": true, "por": true, "favor": true,
		"ayuda": true, "pedido": true, "necesito": true, "precio": true,
		"donde": true, "dónde": true, "cuánto": true, "cuanto": true,
		"quiero": true, "tengo": true, "problema": true,
	}},
	{"fr", map[string]bool{
		"bonjour": true, "merci": true, "aide": true, "commande": true,
		"besoin": true, "prix": true, "combien": true, "avec": true,
		"pour": true, "vous": true, "je": true, "suis": true,
		"probleme": true, "problème": true,
	}},
	{"de", map[string]bool{
		"hallo": true, "danke": true, "bitte": true, "hilfe": true,
		"bestellung": true, "brauche": true, "preis": true, "ich": true,
		"nicht": true, "habe": true, "mein": true, "meine": true,
		"wo": true, "und": true,
	}},
}

// DetectLanguage returns a two-letter language code for the text. Total:
// always returns a code, defaulting to "en" when nothing matches.
func DetectLanguage(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return "en"
	}

	best := "en"
	bestHits := 0
	for _, lang := range languageMarkers {
		hits := 0
		for _, tok := range tokens {
			tok = strings.Trim(tok, ".,!?;:¿¡\"'")
			if lang.words[tok] {
				hits++
			}
		}
		if hits > bestHits {
			best = lang.code
			bestHits = hits
		}
	}

	// A single stray token ("wo", "je") is too weak a signal in a longer
	// message; require two hits unless the whole message is short.
	if bestHits == 1 && len(tokens) >= 4 {
		return "en"
	}

	return best
}
