package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-screener/internal/interview"
)

const (
	questionSystemInstruction = "You are an AI interviewer. Generate short, concise questions only."
	questionDecoration        = "*_`#> \t\r"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionPrompt asks for one full stack interview question of the given
// difficulty.
func (pb *PromptBuilder) BuildQuestionPrompt(d interview.Difficulty) string {
	return fmt.Sprintf(
		"Generate a %s full stack interview question (React/Node). Keep it concise and under 20 words. Return only the question, no explanations.",
		strings.ToLower(string(d)),
	)
}

// QuestionOptions are the generation settings for interview questions.
func (pb *PromptBuilder) QuestionOptions() TextOptions {
	return TextOptions{
		SystemInstruction: questionSystemInstruction,
		Temperature:       0.7,
		MaxOutputTokens:   100,
	}
}

// CleanQuestion strips the decoration models like to add around a single
// question: markdown emphasis, quotes and a "Question:" label. Only the first
// non-empty line is kept.
func CleanQuestion(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, questionDecoration)
		if strings.HasPrefix(strings.ToLower(line), "question:") {
			line = strings.Trim(line[len("question:"):], questionDecoration)
		}
		line = strings.TrimSpace(strings.Trim(line, `"'“”`))
		if line != "" {
			return line
		}
	}
	return ""
}

// ResumeSnippet trims a matched chunk for display in search results.
func ResumeSnippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
