package handler

import (
	"strconv"

	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler handles level and section HTTP requests
type ContentHandler struct {
	service service.ContentService
}

// NewContentHandler creates a new ContentHandler instance
func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// CreateLevel handles POST /api/levels
func (h *ContentHandler) CreateLevel(c *fiber.Ctx) error {
	var req dto.LevelRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.CreateLevel(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetLevel handles GET /api/levels/:id
func (h *ContentHandler) GetLevel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.service.GetLevel(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListLevels handles GET /api/levels
func (h *ContentHandler) ListLevels(c *fiber.Ctx) error {
	resp, err := h.service.ListLevels(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateLevel handles PUT /api/levels/:id
func (h *ContentHandler) UpdateLevel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.LevelRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.UpdateLevel(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteLevel handles DELETE /api/levels/:id
func (h *ContentHandler) DeleteLevel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteLevel(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "level deleted"})
}

// CreateSection handles POST /api/sections
func (h *ContentHandler) CreateSection(c *fiber.Ctx) error {
	var req dto.SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.CreateSection(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSection handles GET /api/sections/:id
func (h *ContentHandler) GetSection(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.service.GetSection(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListSections handles GET /api/sections. A level_id query narrows the
// listing to one level.
func (h *ContentHandler) ListSections(c *fiber.Ctx) error {
	if levelParam := c.Query("level_id"); levelParam != "" {
		levelID, err := strconv.ParseInt(levelParam, 10, 64)
		if err != nil {
			return domain.NewValidationError("level_id must be an integer")
		}
		resp, err := h.service.ListSectionsByLevel(c.Context(), levelID)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}

	resp, err := h.service.ListSections(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateSection handles PUT /api/sections/:id
func (h *ContentHandler) UpdateSection(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.UpdateSection(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteSection handles DELETE /api/sections/:id
func (h *ContentHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSection(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "section deleted"})
}
