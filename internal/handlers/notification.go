package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// ListNotifications returns notifications addressed to the caller, matched
// by email or username.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var user models.User
	if err := h.db.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "User not found",
		})
	}

	var notifications []models.Notification
	if err := h.db.Where("target_user IN ?", []string{user.Email, user.Username}).
		Order("created_at DESC").
		Limit(200).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list notifications",
		})
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// CreateNotification lets an admin address a notification to an email or
// username.
func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		TargetUser string `json:"target_user"`
		Title      string `json:"title"`
		Body       string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.TargetUser) == "" || strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "target_user and title are required",
		})
	}

	notification := models.Notification{
		TargetUser: req.TargetUser,
		Title:      req.Title,
		Body:       req.Body,
	}
	if err := h.db.Create(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create notification",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(notification)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := h.db.First(&notification, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Notification not found",
		})
	}

	notification.Read = true
	h.db.Save(&notification)

	return c.JSON(notification)
}

func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid notification ID",
		})
	}

	if err := h.db.Delete(&models.Notification{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete notification",
		})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}
