package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

var dropdownCategories = map[string]bool{
	models.DropdownEquipmentCategory: true,
	models.DropdownLocation:          true,
	models.DropdownStatus:            true,
	models.DropdownResult:            true,
}

type DropdownHandler struct {
	db *gorm.DB
}

func NewDropdownHandler(db *gorm.DB) *DropdownHandler {
	return &DropdownHandler{db: db}
}

// ListOptions returns the option list for one taxonomy category.
func (h *DropdownHandler) ListOptions(c *fiber.Ctx) error {
	category := c.Params("category")
	if !dropdownCategories[category] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Unknown dropdown category",
		})
	}

	var options []models.DropdownOption
	if err := h.db.Where("category = ?", category).
		Order("sort_order, value").
		Find(&options).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list options",
		})
	}
	return c.JSON(fiber.Map{"options": options})
}

func (h *DropdownHandler) CreateOption(c *fiber.Ctx) error {
	category := c.Params("category")
	if !dropdownCategories[category] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Unknown dropdown category",
		})
	}

	var req struct {
		Value     string `json:"value"`
		Label     string `json:"label"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Value) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Value is required",
		})
	}

	option := models.DropdownOption{
		Category:  category,
		Value:     req.Value,
		Label:     req.Label,
		SortOrder: req.SortOrder,
	}
	if option.Label == "" {
		option.Label = option.Value
	}

	if err := h.db.Create(&option).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create option",
		})
	}

	actor, _ := c.Locals("username").(string)
	recordAudit(h.db, actor, "dropdown-create", category, map[string]interface{}{
		"value": option.Value,
	})

	return c.Status(fiber.StatusCreated).JSON(option)
}

func (h *DropdownHandler) UpdateOption(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid option ID",
		})
	}

	var option models.DropdownOption
	if err := h.db.First(&option, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Option not found",
		})
	}

	var req struct {
		Value     *string `json:"value"`
		Label     *string `json:"label"`
		SortOrder *int    `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.Value != nil && strings.TrimSpace(*req.Value) != "" {
		option.Value = *req.Value
	}
	if req.Label != nil {
		option.Label = *req.Label
	}
	if req.SortOrder != nil {
		option.SortOrder = *req.SortOrder
	}

	if err := h.db.Save(&option).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update option",
		})
	}
	return c.JSON(option)
}

func (h *DropdownHandler) DeleteOption(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid option ID",
		})
	}

	if err := h.db.Delete(&models.DropdownOption{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete option",
		})
	}

	actor, _ := c.Locals("username").(string)
	recordAudit(h.db, actor, "dropdown-delete", id.String(), nil)

	return c.JSON(fiber.Map{"message": "Option deleted"})
}
