package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

type EquipmentHandler struct {
	db *gorm.DB
}

func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler {
	return &EquipmentHandler{db: db}
}

// ListEquipment returns equipment, filterable by category, location and status.
func (h *EquipmentHandler) ListEquipment(c *fiber.Ctx) error {
	query := h.db.Order("created_at DESC")
	if v := c.Query("category", ""); v != "" {
		query = query.Where("category = ?", v)
	}
	if v := c.Query("location", ""); v != "" {
		query = query.Where("location = ?", v)
	}
	if v := c.Query("status", ""); v != "" {
		query = query.Where("status = ?", v)
	}

	var equipment []models.Equipment
	if err := query.Find(&equipment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list equipment",
		})
	}
	return c.JSON(fiber.Map{"equipment": equipment})
}

func (h *EquipmentHandler) CreateEquipment(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		SerialNumber string `json:"serial_number"`
		Category     string `json:"category"`
		Location     string `json:"location"`
		Status       string `json:"status"`
		Manufacturer string `json:"manufacturer"`
		Notes        string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.SerialNumber) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Name and serial number are required",
		})
	}

	equipment := models.Equipment{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Location:     req.Location,
		Manufacturer: req.Manufacturer,
		Notes:        req.Notes,
	}
	if req.Status != "" {
		equipment.Status = req.Status
	}

	if err := h.db.Create(&equipment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create equipment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(equipment)
}

func (h *EquipmentHandler) GetEquipment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid equipment ID",
		})
	}

	var equipment models.Equipment
	if err := h.db.First(&equipment, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Equipment not found",
		})
	}
	return c.JSON(equipment)
}

func (h *EquipmentHandler) UpdateEquipment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid equipment ID",
		})
	}

	var equipment models.Equipment
	if err := h.db.First(&equipment, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Equipment not found",
		})
	}

	var req struct {
		Name         *string `json:"name"`
		Category     *string `json:"category"`
		Location     *string `json:"location"`
		Status       *string `json:"status"`
		Manufacturer *string `json:"manufacturer"`
		Notes        *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.Name != nil {
		equipment.Name = *req.Name
	}
	if req.Category != nil {
		equipment.Category = *req.Category
	}
	if req.Location != nil {
		equipment.Location = *req.Location
	}
	if req.Status != nil {
		equipment.Status = *req.Status
	}
	if req.Manufacturer != nil {
		equipment.Manufacturer = *req.Manufacturer
	}
	if req.Notes != nil {
		equipment.Notes = *req.Notes
	}

	if err := h.db.Save(&equipment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update equipment",
		})
	}
	return c.JSON(equipment)
}

// DeleteEquipment soft-deletes the record; inspections referencing it stay.
func (h *EquipmentHandler) DeleteEquipment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid equipment ID",
		})
	}

	if err := h.db.Delete(&models.Equipment{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete equipment",
		})
	}

	actor, _ := c.Locals("username").(string)
	recordAudit(h.db, actor, "equipment-delete", id.String(), nil)

	return c.JSON(fiber.Map{"message": "Equipment deleted"})
}
