package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
	"alfredoptarigan/interview-screener/internal/services"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
	snippetLength      = 280
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	docRepo       repositories.DocumentRepository
	index         services.ResumeIndex
	log           *zap.Logger
}

// NewCandidateHandler wires the candidate endpoints. A nil index makes the
// résumé search endpoint report 503.
func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	docRepo repositories.DocumentRepository,
	index services.ResumeIndex,
	log *zap.Logger,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		docRepo:       docRepo,
		index:         index,
		log:           logger.OrNop(log),
	}
}

func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.List()
	if err != nil {
		h.log.Error("Failed to list candidates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load candidates",
		})
	}

	return c.JSON(candidates)
}

func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.candidateRepo.FindByID(id)
	if err != nil {
		return h.candidateError(c, id, err)
	}

	return c.JSON(candidate)
}

func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	if err := h.candidateRepo.Delete(id); err != nil {
		return h.candidateError(c, id, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CandidateHandler) candidateError(c *fiber.Ctx, id uuid.UUID, err error) error {
	if errors.Is(err, repositories.ErrCandidateNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	h.log.Error("Candidate lookup failed", zap.String("candidate_id", id.String()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to load candidate",
	})
}

// HandleSearch ranks uploaded résumés by semantic similarity to q.
func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": services.ErrIndexDisabled.Error(),
		})
	}

	limit := c.QueryInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	hits, err := h.index.Search(c.UserContext(), query, limit)
	if err != nil {
		h.log.Error("Resume search failed", zap.String("query", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search resumes",
		})
	}

	return c.JSON(models.ResumeSearchResponse{
		Query:   query,
		Results: h.toSearchHits(hits),
	})
}

func (h *CandidateHandler) toSearchHits(hits []services.ResumeHit) []models.ResumeSearchHit {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		if id, err := uuid.Parse(hit.DocumentID); err == nil {
			ids = append(ids, id)
		}
	}

	filenames := make(map[string]string, len(ids))
	docs, err := h.docRepo.FindByIDs(ids)
	if err != nil {
		h.log.Warn("Failed to resolve search hit filenames", zap.Error(err))
	}
	for _, doc := range docs {
		filenames[doc.ID.String()] = doc.OriginalFileName
	}

	results := make([]models.ResumeSearchHit, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.ResumeSearchHit{
			DocumentID: hit.DocumentID,
			Filename:   filenames[hit.DocumentID],
			Score:      hit.Score,
			Snippet:    services.ResumeSnippet(hit.Text, snippetLength),
		})
	}

	return results
}
