package handlers

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

type AuditHandler struct {
	db *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

// ListAuditLogs returns the paginated trail, filterable by actor, action,
// target and a since timestamp. Deletion-workflow entries are found via
// action=user-delete-complete or target=<uid>.
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var since time.Time
	if v := c.Query("since", ""); v != "" {
		var err error
		since, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "since must be RFC 3339",
			})
		}
	}

	query := h.db.Model(&models.AuditLog{})
	if v := c.Query("actor", ""); v != "" {
		query = query.Where("actor = ?", v)
	}
	if v := c.Query("action", ""); v != "" {
		query = query.Where("action = ?", v)
	}
	if v := c.Query("target", ""); v != "" {
		query = query.Where("target = ?", v)
	}
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var total int64
	query.Count(&total)

	var entries []models.AuditLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list audit logs",
		})
	}

	return c.JSON(fiber.Map{
		"entries":  entries,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// UserHistory returns every audit entry targeting one user, oldest first.
// After a deletion this is the surviving record of what happened to the
// account.
func (h *AuditHandler) UserHistory(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid user ID",
		})
	}

	var entries []models.AuditLog
	if err := h.db.Where("target = ?", uid.String()).
		Order("created_at").
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to load user history",
		})
	}

	return c.JSON(fiber.Map{
		"target":  uid.String(),
		"entries": entries,
	})
}

// recordAudit appends one trail entry. Audit writes on CRUD paths never
// fail the request; a lost entry is logged and the mutation stands.
func recordAudit(db *gorm.DB, actor, action, target string, details map[string]interface{}) {
	entry := models.AuditLog{Actor: actor, Action: action, Target: target}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = b
		}
	}
	if err := db.Create(&entry).Error; err != nil {
		slog.Warn("Failed to record audit entry", "action", action, "target", target, "error", err)
	}
}
