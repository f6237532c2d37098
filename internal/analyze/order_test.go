package analyze

import "testing"

func TestExtractOrderNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"letter prefix format", "order #AB123456 not arrived", "AB123456"},
		{"letter prefix without hash", "where is AB123456", "AB123456"},
		{"lowercase letter prefix", "ab123456 please check", "ab123456"},
		{"bare digit sequence", "my order number is 123456789", "123456789"},
		{"explicit order reference", "order: XY-99", "XY-99"},
		{"no order number", "hello there", ""},
		{"digits too short", "ref 1234567 thanks", ""},
		{"empty text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractOrderNumber(tt.text); got != tt.want {
				t.Errorf("ExtractOrderNumber(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
