package analyze

import "testing"

func TestSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "positive gratitude",
			text: "Thank you, great service",
			want: 0.5,
		},
		{
			name: "negative complaint",
			text: "This is terrible and unacceptable",
			want: -0.4,
		},
		{
			name: "angry with distress markers",
			text: "This is ridiculous!!! charged twice!!!",
			want: -0.4,
		},
		{
			name: "strongly negative clamps at -1",
			text: "awful horrible worst",
			want: -1.0,
		},
		{
			name: "neutral text",
			text: "Can you tell me your opening hours?",
			want: 0.0,
		},
		{
			name: "empty string",
			text: "",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentiment(tt.text)
			if got != tt.want {
				t.Errorf("Sentiment(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentimentRange(t *testing.T) {
	samples := []string{
		"love love love amazing perfect",
		"hate hate hate worst awful terrible",
		"!!!!!! URGENT EMERGENCY ASAP",
		"ok",
	}
	for _, s := range samples {
		got := Sentiment(s)
		if got < -1.0 || got > 1.0 {
			t.Errorf("Sentiment(%q) = %v, outside [-1,1]", s, got)
		}
	}
}
