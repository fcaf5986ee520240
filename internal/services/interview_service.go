package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/interview"
	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
)

var (
	ErrMissingContact = errors.New("name, email, and phone are required")
	ErrNoAnswers      = errors.New("no answers provided")
)

// InterviewService turns a finished interview into a scored candidate record.
type InterviewService interface {
	Submit(req *models.SubmitAnswersRequest) (*models.Candidate, error)
}

type interviewService struct {
	candidateRepo repositories.CandidateRepository
	scorer        *interview.Scorer
	summarizer    *interview.Summarizer
	log           *zap.Logger
}

func NewInterviewService(candidateRepo repositories.CandidateRepository, log *zap.Logger) InterviewService {
	return &interviewService{
		candidateRepo: candidateRepo,
		scorer:        interview.NewScorer(interview.DefaultWeights(), interview.DefaultQuestionsPerTier),
		summarizer:    interview.NewSummarizer(interview.DefaultSummaryTemplate()),
		log:           logger.OrNop(log),
	}
}

// Submit validates the request, scores the answers, writes the summary and
// persists the candidate. Validation failures return ErrMissingContact or
// ErrNoAnswers.
func (s *interviewService) Submit(req *models.SubmitAnswersRequest) (*models.Candidate, error) {
	req.Normalize()
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, ErrMissingContact
	}
	if len(req.Answers) == 0 {
		return nil, ErrNoAnswers
	}

	result := s.scorer.Score(req.Answers)
	hint := req.ResumeHint()

	candidate := &models.Candidate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Resume:   hint,
		Score:    result.Score,
		Attended: result.Attended,
		Total:    result.Total,
		Summary:  s.summarizer.Summarize(req.Name, result, hint),
		Answers:  req.Answers,
	}

	if err := s.candidateRepo.Create(candidate); err != nil {
		return nil, fmt.Errorf("failed to save candidate: %w", err)
	}

	s.log.Info("✅ Interview submitted",
		zap.String("candidate_id", candidate.ID.String()),
		zap.Int("score", result.Score),
		zap.Int("attended", result.Attended),
		zap.Int("total", result.Total))

	return candidate, nil
}
