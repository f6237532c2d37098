package analyze

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english default", "hello, I need some assistance", "en"},
		{"spanish", "hola necesito ayuda con mi pedido", "es"},
		{"french", "bonjour je suis", "fr"},
		{"french with accents", "Bonjour, j'ai un problème avec ma commande", "fr"},
		{"german", "hallo ich brauche hilfe", "de"},
		{"empty text", "", "en"},
		{"single weak marker in long english text", "wo is my package right now", "en"},
		{"single word greeting", "gracias", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// DetectLanguage must be total: any input yields a code.
func TestDetectLanguageTotal(t *testing.T) {
	inputs := []string{"", "   ", "123 456", "!!!", "\n\t"}
	for _, in := range inputs {
		if got := DetectLanguage(in); got == "" {
			t.Errorf("DetectLanguage(%q) returned empty code", in)
		}
	}
}
