package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account and school HTTP requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /api/users
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	resp, err := h.service.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	resp, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CheckIDExists handles GET /api/users/:id/exists
func (h *UserHandler) CheckIDExists(c *fiber.Ctx) error {
	exists, err := h.service.CheckIDExists(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ExistsResponse{Exists: exists})
}

// SearchSchools handles GET /api/schools?name=
func (h *UserHandler) SearchSchools(c *fiber.Ctx) error {
	resp, err := h.service.SearchSchools(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
