package resume

import "regexp"

// space is the body of a character class matching the same whitespace as
// Python's \s: ASCII space and controls plus every Unicode separator, so
// non-breaking spaces from PDF extraction still separate tokens.
const space = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

var (
	// EmailPattern matches local-part@domain.tld shaped tokens. No validation
	// beyond the syntactic shape is performed.
	EmailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

	// PhonePattern matches an optional 1-3 digit country code followed by either
	// ten contiguous digits or a 3-3-4 run separated by space, dot or hyphen.
	PhonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.` + space + `]?)?(\d{10}|\d{3}[-.` + space + `]\d{3}[-.` + space + `]\d{4})`)

	// namePattern captures one to three capitalized words after a "Name" label.
	namePattern = regexp.MustCompile(`Name[:` + space + `\-]+([A-Z][a-z]+[` + space + `]?[A-Z]?[a-z]+(?:[` + space + `][A-Z][a-z]+)?)`)

	phoneStrip = regexp.MustCompile(`[^\d+]`)
)

// Span is a single match located in a text. Start and End are byte offsets.
type Span struct {
	Start int
	End   int
	Text  string
}

// MatchEmail returns the first email-shaped token in text.
func MatchEmail(text string) (Span, bool) {
	return firstMatch(EmailPattern, text)
}

// MatchPhone returns the first phone-shaped token in text.
func MatchPhone(text string) (Span, bool) {
	return firstMatch(PhonePattern, text)
}

func firstMatch(re *regexp.Regexp, text string) (Span, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]}, true
}
