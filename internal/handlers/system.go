package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

var startTime = time.Now()
var Version = "1.0.0"

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	statusCode := fiber.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unreachable: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	}

	overall := "ok"
	if statusCode != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  overall,
		"service": "rigcheck",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"uptime":  time.Since(startTime).String(),
		"db":      dbStatus,
	})
}

// DashboardOverview returns entity counts for the landing page.
func (h *SystemHandler) DashboardOverview(c *fiber.Ctx) error {
	var equipment, inspections, users, openNotifications int64
	h.db.Model(&models.Equipment{}).Count(&equipment)
	h.db.Model(&models.Inspection{}).Count(&inspections)
	h.db.Model(&models.User{}).Count(&users)
	h.db.Model(&models.Notification{}).Where("read = ?", false).Count(&openNotifications)

	var recent []models.Inspection
	h.db.Order("performed_at DESC").Limit(5).Find(&recent)

	return c.JSON(fiber.Map{
		"equipment":          equipment,
		"inspections":        inspections,
		"users":              users,
		"open_notifications": openNotifications,
		"recent_inspections": recent,
	})
}
