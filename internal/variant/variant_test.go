package variant

import "testing"

func TestAssignDeterministic(t *testing.T) {
	users := []string{"tiktok:12345", "linkedin:urn:li:person:abc", "u1", ""}
	for _, u := range users {
		first := Assign(u)
		for i := 0; i < 5; i++ {
			if got := Assign(u); got != first {
				t.Fatalf("Assign(%q) not deterministic: %v then %v", u, first, got)
			}
		}
		if first != A && first != B {
			t.Fatalf("Assign(%q) = %v, not a valid bucket", u, first)
		}
	}
}

func TestAssignSpreadsUsers(t *testing.T) {
	// Not a statistical test, just a guard against Assign collapsing to a
	// single bucket for everyone.
	seen := map[Variant]bool{}
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		seen[Assign(u)] = true
	}
	if !seen[A] || !seen[B] {
		t.Errorf("Assign produced a single bucket across 8 users: %v", seen)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		sticky   string
		language string
		want     Variant
	}{
		{"forced a", "a", "B", "en", A},
		{"forced A uppercase", "A", "B", "en", A},
		{"forced b overrides sticky", "b", "A", "en", B},
		{"sticky wins over auto", "auto", "B", "en", B},
		{"sticky wins over unknown mode", "whatever", "b", "en", B},
		{"auto english", "auto", "", "en", A},
		{"auto non-english", "auto", "", "es", B},
		{"auto empty language", "auto", "", "", A},
		{"default fallback b-prefix", "beta", "", "en", B},
		{"default fallback other", "control", "", "en", A},
		{"default fallback empty", "", "", "en", A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.mode, tt.sticky, tt.language); got != tt.want {
				t.Errorf("Resolve(%q, %q, %q) = %v, want %v", tt.mode, tt.sticky, tt.language, got, tt.want)
			}
		})
	}
}

func TestResolveRandom(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := Resolve("random", "", "en")
		if got != A && got != B {
			t.Fatalf("Resolve(random) = %v, not a valid bucket", got)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		intent string
		v      string
		want   string
	}{
		{"sales", "b", "sales/B"},
		{"sales", "B", "sales/B"},
		{"support", "a", "support/A"},
		{"general", "", "general/A"},
		{"general", "x", "general/A"},
	}
	for _, tt := range tests {
		if got := Key(tt.intent, tt.v); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.intent, tt.v, got, tt.want)
		}
	}
}
