package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz generation HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GenerateQuiz handles POST /api/quiz/log
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	resp, err := h.service.GenerateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizByBatchID handles GET /api/quiz/:batchId
func (h *QuizHandler) GetQuizByBatchID(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	if batchID == "" {
		return domain.NewInvalidInputError("batch id is required")
	}

	resp, err := h.service.GetQuizByBatchID(c.UserContext(), batchID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
