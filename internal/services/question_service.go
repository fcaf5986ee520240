package services

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/interview"
	"alfredoptarigan/interview-screener/internal/logger"
)

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
}

type QuestionService interface {
	Generate(ctx context.Context) []interview.Question
	Static() []interview.Question
}

type questionService struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	limits        interview.TimeLimits
	perTier       int
	timeout       time.Duration
	pick          func(n int) int
	log           *zap.Logger
}

// NewQuestionService builds the interview question source. A nil generator
// serves fallback questions only.
func NewQuestionService(generator TextGenerator, timeout time.Duration, log *zap.Logger) QuestionService {
	return &questionService{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		limits:        interview.DefaultTimeLimits(),
		perTier:       interview.DefaultQuestionsPerTier,
		timeout:       timeout,
		pick:          rand.IntN,
		log:           logger.OrNop(log),
	}
}

// Generate returns one question per slot of the interview plan, easiest
// first. A slot whose generation fails gets a random fallback question of the
// same tier, so the result is always complete.
func (s *questionService) Generate(ctx context.Context) []interview.Question {
	plan := interview.Plan(s.perTier)
	questions := make([]interview.Question, 0, len(plan))

	for _, d := range plan {
		text := s.generate(ctx, d)
		if text == "" {
			text = s.fallback(d)
		}
		questions = append(questions, interview.Question{
			Text:       text,
			Difficulty: d,
			Time:       s.limits.For(d),
		})
	}

	return questions
}

func (s *questionService) generate(ctx context.Context, d interview.Difficulty) string {
	if s.generator == nil {
		return ""
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(callCtx, s.promptBuilder.BuildQuestionPrompt(d), s.promptBuilder.QuestionOptions())
	if err != nil {
		s.log.Warn("Question generation failed, using fallback",
			zap.String("difficulty", string(d)),
			zap.Error(err))
		return ""
	}

	text := CleanQuestion(raw)
	if text == "" {
		s.log.Warn("Question generation returned no usable text",
			zap.String("difficulty", string(d)),
			zap.String("raw", logger.TruncateForLog(raw, 200)))
	}
	return text
}

func (s *questionService) fallback(d interview.Difficulty) string {
	pool := interview.FallbackPool(d)
	return pool[s.pick(len(pool))]
}

func (s *questionService) Static() []interview.Question {
	return interview.StaticQuestions(s.limits)
}

type retryingGenerator struct {
	gemini   GeminiService
	attempts int
}

// WithRetries makes every generation call retry up to attempts times with
// the service's backoff. The caller's deadline still bounds the whole call.
func WithRetries(gemini GeminiService, attempts int) TextGenerator {
	return &retryingGenerator{gemini: gemini, attempts: attempts}
}

func (r *retryingGenerator) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	return r.gemini.GenerateTextWithRetry(ctx, prompt, opts, r.attempts)
}
