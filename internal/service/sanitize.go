package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxNameLength caps sanitized names so they fit certificate layouts and
// filenames.
const maxNameLength = 80

// Sanitize normalizes an untrusted display name into a form safe to embed in
// XML text nodes and filenames. It never fails: empty or fully-stripped input
// yields "".
//
// Steps, in order: NFKC-normalize so visually equivalent code points
// collapse, strip everything that is not a letter, digit, space or one of
// `. , ' -`, collapse whitespace runs, trim, and cap at 80 characters.
func Sanitize(raw string) string {
	normalized := norm.NFKC.String(raw)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == ',' || r == '\'' || r == '-':
			b.WriteRune(r)
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(collapsed)
	if len(runes) > maxNameLength {
		collapsed = strings.TrimRight(string(runes[:maxNameLength]), " ")
	}
	return collapsed
}
