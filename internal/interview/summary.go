package interview

import (
	"fmt"
	"strings"
)

// SummaryTemplate holds the format strings of each summary fragment so the
// wording can be localized.
type SummaryTemplate struct {
	// Completed receives name, attended, total and score.
	Completed string
	// Skipped receives the number of skipped questions.
	Skipped string
	// ResumeFile receives the résumé filename hint.
	ResumeFile string
	// Anonymous replaces a blank candidate name.
	Anonymous string
}

func DefaultSummaryTemplate() SummaryTemplate {
	return SummaryTemplate{
		Completed:  "%s completed the interview with %d/%d questions answered. Weighted score: %d/100.",
		Skipped:    " %d question(s) were skipped or timed out.",
		ResumeFile: " Resume file: %s.",
		Anonymous:  "Candidate",
	}
}

type Summarizer struct {
	tmpl SummaryTemplate
}

func NewSummarizer(tmpl SummaryTemplate) *Summarizer {
	return &Summarizer{tmpl: tmpl}
}

var defaultSummarizer = NewSummarizer(DefaultSummaryTemplate())

// Summarize describes result with the default English template.
func Summarize(name string, result ScoreResult, resumeHint string) string {
	return defaultSummarizer.Summarize(name, result, resumeHint)
}

// Summarize renders the narrative for result. The skipped and résumé
// fragments are appended, in that order, only when they carry information.
func (s *Summarizer) Summarize(name string, result ScoreResult, resumeHint string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.tmpl.Anonymous
	}

	var b strings.Builder
	fmt.Fprintf(&b, s.tmpl.Completed, name, result.Attended, result.Total, result.Score)

	if skipped := result.Skipped(); skipped > 0 {
		fmt.Fprintf(&b, s.tmpl.Skipped, skipped)
	}

	if hint := strings.TrimSpace(resumeHint); hint != "" {
		fmt.Fprintf(&b, s.tmpl.ResumeFile, hint)
	}

	return b.String()
}
