package correction

import "testing"

func TestExtractFindsFirstMatchingLine(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
		found bool
	}{
		{
			name:  "keyword on second line",
			reply: "Nice job!\nBy the way, a small correction: say 'I went' not 'I go'.",
			want:  "By the way, a small correction: say 'I went' not 'I go'.",
			found: true,
		},
		{
			name:  "pencil glyph",
			reply: "Great progress today.\n✏️ Correction: say 'she goes' not 'she go'.\nKeep it up!",
			want:  "✏️ Correction: say 'she goes' not 'she go'.",
			found: true,
		},
		{
			name:  "keyword case-insensitive",
			reply: "CORRECTION: use the past tense here.",
			want:  "CORRECTION: use the past tense here.",
			found: true,
		},
		{
			name:  "first of several matches wins",
			reply: "Correction: one.\nCorrection: two.",
			want:  "Correction: one.",
			found: true,
		},
		{
			name:  "no marker",
			reply: "That sounds wonderful! What did you do next?",
			found: false,
		},
		{
			name:  "empty reply",
			reply: "",
			found: false,
		},
	}

	extractor := NewMarkerExtractor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractor.Extract("I go to the park yesterday", tc.reply)
			if ok != tc.found {
				t.Fatalf("found = %v, want %v", ok, tc.found)
			}
			if !tc.found {
				return
			}
			if got.Text != tc.want {
				t.Fatalf("extracted %q, want %q", got.Text, tc.want)
			}
			if got.UserMessage != "I go to the park yesterday" {
				t.Fatalf("user message not recorded: %q", got.UserMessage)
			}
			if got.Timestamp == "" {
				t.Fatal("expected a time-of-day stamp")
			}
		})
	}
}
