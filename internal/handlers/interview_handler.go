package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	log              *zap.Logger
}

func NewInterviewHandler(interviewService services.InterviewService, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		log:              logger.OrNop(log),
	}
}

func (h *InterviewHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	candidate, err := h.interviewService.Submit(&req)
	switch {
	case errors.Is(err, services.ErrMissingContact):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email, and phone are required",
		})
	case errors.Is(err, services.ErrNoAnswers):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No answers provided",
		})
	case err != nil:
		h.log.Error("Failed to submit answers", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit answers. Please try again.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.SubmitAnswersResponse{
		ID:       candidate.ID.String(),
		Score:    candidate.Score,
		Summary:  candidate.Summary,
		Attended: candidate.Attended,
		Total:    candidate.Total,
	})
}
