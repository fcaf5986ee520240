package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/services"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

func (h *QuestionHandler) HandleStatic(c *fiber.Ctx) error {
	return c.JSON(h.questionService.Static())
}

func (h *QuestionHandler) HandleGenerate(c *fiber.Ctx) error {
	questions := h.questionService.Generate(c.UserContext())
	return c.JSON(models.GeneratedQuestionsResponse{
		Questions: questions,
	})
}
