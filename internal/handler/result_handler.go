package handler

import (
	"strings"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResultHandler handles submission HTTP requests
type ResultHandler struct {
	results service.ResultService
	reports service.ReportService
}

// NewResultHandler creates a new ResultHandler instance
func NewResultHandler(results service.ResultService, reports service.ReportService) *ResultHandler {
	return &ResultHandler{results: results, reports: reports}
}

// SubmitResults handles POST /api/results
func (h *ResultHandler) SubmitResults(c *fiber.Ctx) error {
	var req dto.SubmitResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	resp, err := h.results.SubmitResults(c.UserContext(), &req)
	if err != nil {
		return err
	}

	h.invalidateReport(c, req.BatchID)
	return c.JSON(resp)
}

// UpdateResult handles PUT /api/results
func (h *ResultHandler) UpdateResult(c *fiber.Ctx) error {
	var req dto.UpdateResultRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	resp, err := h.results.UpdateResult(c.UserContext(), &req)
	if err != nil {
		return err
	}

	h.invalidateReport(c, req.BatchID)
	return c.JSON(resp)
}

// GetStudentResults handles GET /api/results/:userId
func (h *ResultHandler) GetStudentResults(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return domain.NewInvalidInputError("user id is required")
	}

	resp, err := h.results.GetStudentResults(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// invalidateReport drops the cached class report for the room a batch
// belongs to. Batch ids look like t-<roomCode>-<n>.
func (h *ResultHandler) invalidateReport(c *fiber.Ctx, batchID string) {
	parts := strings.Split(batchID, "-")
	if len(parts) < 3 {
		return
	}
	roomCode := strings.Join(parts[1:len(parts)-1], "-")
	if err := h.reports.InvalidateClassReport(c.UserContext(), roomCode); err != nil {
		logger.Get().Warn("failed to invalidate class report cache",
			zap.String("roomCode", roomCode), zap.Error(err))
	}
}
