package interview

import (
	"math"
	"strings"
)

// DefaultQuestionsPerTier is the canonical interview shape: two questions of
// each difficulty.
const DefaultQuestionsPerTier = 2

// Weights maps each difficulty tier to the points a completed answer earns.
type Weights struct {
	Easy   int
	Medium int
	Hard   int
}

// DefaultWeights returns Easy=1, Medium=2, Hard=3.
func DefaultWeights() Weights {
	return Weights{Easy: 1, Medium: 2, Hard: 3}
}

// For returns the weight of d. Unknown or empty difficulties weigh as Easy.
func (w Weights) For(d Difficulty) int {
	switch d {
	case Medium:
		return w.Medium
	case Hard:
		return w.Hard
	default:
		return w.Easy
	}
}

// ScoreResult is the outcome of scoring an answer list.
type ScoreResult struct {
	Score    int `json:"score"`
	Attended int `json:"attended"`
	Total    int `json:"total"`
}

// Skipped is the number of questions that were not completed.
func (r ScoreResult) Skipped() int {
	return r.Total - r.Attended
}

// Scorer computes weighted interview scores. It holds only immutable
// configuration and is safe for concurrent use.
type Scorer struct {
	weights          Weights
	questionsPerTier int
}

func NewScorer(weights Weights, questionsPerTier int) *Scorer {
	return &Scorer{
		weights:          weights,
		questionsPerTier: questionsPerTier,
	}
}

var defaultScorer = NewScorer(DefaultWeights(), DefaultQuestionsPerTier)

// Score scores answers with the default weights and interview shape.
func Score(answers []AnswerRecord) ScoreResult {
	return defaultScorer.Score(answers)
}

// MaxPoints is the score denominator. It reflects the expected interview
// shape, not the number of answers supplied, so skipped questions count
// against the candidate.
func (s *Scorer) MaxPoints() int {
	return s.questionsPerTier * (s.weights.Easy + s.weights.Medium + s.weights.Hard)
}

// Score returns a 0-100 score where only attended, non-blank answers earn
// their difficulty weight. Rounding is half away from zero.
func (s *Scorer) Score(answers []AnswerRecord) ScoreResult {
	result := ScoreResult{Total: len(answers)}

	raw := 0
	for _, a := range answers {
		if !a.Completed() {
			continue
		}
		raw += s.weights.For(a.Difficulty)
		result.Attended++
	}

	maxPoints := s.MaxPoints()
	if maxPoints <= 0 {
		return result
	}

	score := int(math.Round(float64(raw) / float64(maxPoints) * 100))
	result.Score = min(max(score, 0), 100)

	return result
}

// Completed reports whether the record counts towards the score.
func (a AnswerRecord) Completed() bool {
	return a.Attended && a.Answer != nil && strings.TrimSpace(*a.Answer) != ""
}
