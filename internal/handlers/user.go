package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/mertcakir/rigcheck/internal/models"
	"github.com/mertcakir/rigcheck/internal/services"
	"gorm.io/gorm"
)

type UserHandler struct {
	db       *gorm.DB
	deletion *services.UserDeletionService
}

func NewUserHandler(db *gorm.DB, deletion *services.UserDeletionService) *UserHandler {
	return &UserHandler{db: db, deletion: deletion}
}

// ListUsers returns all users (admin only, enforced by routing).
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list users",
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

// UpdateProfile lets a user edit their own name fields.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		FullName  *string `json:"full_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "User not found",
		})
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if err := h.db.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update profile",
		})
	}
	return c.JSON(user)
}

// DeleteUserComplete runs the full account-removal workflow: identity and
// profile deletion, inspection preservation, notification cleanup and an
// audit entry.
func (h *UserHandler) DeleteUserComplete(c *fiber.Ctx) error {
	var req struct {
		UID string `json:"uid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	caller := services.Caller{
		UID:      localString(c, "uid"),
		Username: localString(c, "username"),
	}

	result, err := h.deletion.DeleteUserComplete(c.Context(), caller, req.UID)
	if err != nil {
		var wErr *services.WorkflowError
		if errors.As(err, &wErr) {
			if wErr.Code == services.CodeInternal {
				slog.Error("User deletion failed", "target", req.UID, "error", err)
			}
			return c.Status(statusForCode(wErr.Code)).JSON(fiber.Map{
				"error":   true,
				"code":    wErr.Code,
				"message": wErr.Message,
			})
		}
		slog.Error("User deletion failed", "target", req.UID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "User deletion failed",
		})
	}

	return c.JSON(result)
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case services.CodePermissionDenied:
		return fiber.StatusForbidden
	case services.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case services.CodeFailedPrecondition:
		return fiber.StatusPreconditionFailed
	case services.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func localString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
