package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles class report HTTP requests
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetClassReport handles GET /api/reports/:roomCode
func (h *ReportHandler) GetClassReport(c *fiber.Ctx) error {
	roomCode := c.Params("roomCode")
	if roomCode == "" {
		return domain.NewInvalidInputError("room code is required")
	}

	resp, err := h.service.GetClassReport(c.UserContext(), roomCode)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
