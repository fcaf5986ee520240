// Package resume turns unstructured résumé text into structured contact fields.
//
// Extraction is heuristic and never fails: a field that cannot be located is
// left nil rather than reported as an error.
package resume

import (
	"strings"
)

// ExtractedFields holds the contact details found in a résumé. Each field is
// independently optional.
type ExtractedFields struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Extract locates the candidate's name, email and phone in text.
//
// The name comes from an explicit "Name:" label when present. Otherwise the
// first non-empty line above the email is used, on the assumption that
// résumés put the candidate's name above their contact details. That fallback
// is best-effort only: a header or logo line above the name defeats it.
func Extract(text string) ExtractedFields {
	text = strings.ReplaceAll(text, "\n", " \n ")

	var fields ExtractedFields

	email, hasEmail := MatchEmail(text)
	if hasEmail {
		fields.Email = strPtr(email.Text)
	}

	if m := namePattern.FindStringSubmatch(text); m != nil {
		fields.Name = strPtr(strings.TrimSpace(m[1]))
	} else if hasEmail {
		if line, ok := firstLine(text[:email.Start]); ok {
			fields.Name = strPtr(line)
		}
	}

	if phone, ok := MatchPhone(text); ok {
		fields.Phone = strPtr(NormalizePhone(phone.Text))
	}

	return fields
}

// NormalizePhone strips everything except digits and '+'. A leading '+' is
// kept as an international prefix; no country code is ever inferred.
func NormalizePhone(raw string) string {
	return phoneStrip.ReplaceAllString(raw, "")
}

func firstLine(text string) (string, bool) {
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func strPtr(s string) *string {
	return &s
}
