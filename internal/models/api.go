package models

import (
	"encoding/json"
	"strings"

	"alfredoptarigan/interview-screener/internal/interview"
	"alfredoptarigan/interview-screener/internal/resume"
)

type UploadResponse struct {
	Filename     string                 `json:"filename"`
	ParsedFields resume.ExtractedFields `json:"parsed_fields"`
	DocumentID   string                 `json:"document_id"`
	IndexStatus  string                 `json:"index_status"`
}

type SubmitAnswersRequest struct {
	Name    string                   `json:"name"`
	Email   string                   `json:"email"`
	Phone   string                   `json:"phone"`
	Resume  json.RawMessage          `json:"resume"`
	Answers []interview.AnswerRecord `json:"answers"`
}

// ResumeHint returns the résumé filename when the client sent it as a plain
// string. Any other JSON value is ignored.
func (r *SubmitAnswersRequest) ResumeHint() string {
	var hint string
	if len(r.Resume) == 0 || json.Unmarshal(r.Resume, &hint) != nil {
		return ""
	}
	return strings.TrimSpace(hint)
}

// Normalize trims the contact fields in place.
func (r *SubmitAnswersRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

type SubmitAnswersResponse struct {
	ID       string `json:"id"`
	Score    int    `json:"score"`
	Summary  string `json:"summary"`
	Attended int    `json:"attended"`
	Total    int    `json:"total"`
}

type GeneratedQuestionsResponse struct {
	Questions []interview.Question `json:"questions"`
}

type ResumeSearchHit struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename,omitempty"`
	Score      float32 `json:"score"`
	Snippet    string  `json:"snippet"`
}

type ResumeSearchResponse struct {
	Query   string            `json:"query"`
	Results []ResumeSearchHit `json:"results"`
}
