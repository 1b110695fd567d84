package service

import (
	"strings"
	"testing"
	"unicode"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Ada Lovelace", "Ada Lovelace"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"allowed punctuation", "O'Brien-Smith, Jr.", "O'Brien-Smith, Jr."},
		{"strips emoji", "Ada 🎉 Lovelace", "Ada Lovelace"},
		{"only emoji", "🎉🚀💯", ""},
		{"strips control chars", "Ada\x00\x1bLovelace", "AdaLovelace"},
		{"strips angle brackets", `<script>alert("x")</script>Ada`, "scriptalertxscriptAda"},
		{"collapses inner whitespace", "Ada   \t  Lovelace", "Ada Lovelace"},
		{"trims", "  Ada Lovelace  ", "Ada Lovelace"},
		{"unicode letters kept", "José Müller-Łukasiewicz", "José Müller-Łukasiewicz"},
		{"compatibility normalization", "ﬁne", "fine"}, // ﬁ ligature
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeLengthCap(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Sanitize(long)
	if len([]rune(got)) != 80 {
		t.Errorf("len = %d, want 80", len([]rune(got)))
	}

	// Truncation must not leave a trailing space.
	spaced := strings.Repeat("abcd ", 40)
	got = Sanitize(spaced)
	if strings.HasSuffix(got, " ") {
		t.Errorf("truncated name ends with space: %q", got)
	}
	if len([]rune(got)) > 80 {
		t.Errorf("len = %d, want <= 80", len([]rune(got)))
	}
}

func TestSanitizeOutputAlphabet(t *testing.T) {
	inputs := []string{
		"Ada​Lovelace", // zero-width space
		"namewithbells",
		"半角ｶﾀｶﾅ and עברית",
		"quo\"tes & <tags>",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		for _, r := range out {
			ok := unicode.IsLetter(r) || unicode.IsDigit(r) ||
				r == ' ' || r == '.' || r == ',' || r == '\'' || r == '-'
			if !ok {
				t.Errorf("Sanitize(%q) produced disallowed rune %q in %q", in, r, out)
			}
		}
		if strings.TrimSpace(out) != out {
			t.Errorf("Sanitize(%q) = %q has surrounding whitespace", in, out)
		}
	}
}

func TestSanitizeDeterministic(t *testing.T) {
	in := "  José 🎉 O'Brien  "
	if Sanitize(in) != Sanitize(in) {
		t.Error("Sanitize is not deterministic")
	}
}
