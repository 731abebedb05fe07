package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"github.com/mertcakir/rigcheck/internal/storage"
	"gorm.io/gorm"
)

type InspectionHandler struct {
	db           *gorm.DB
	photos       *storage.PhotoStore
	maxPhotoSize int64
}

func NewInspectionHandler(db *gorm.DB, photos *storage.PhotoStore, maxPhotoSizeMB int) *InspectionHandler {
	return &InspectionHandler{
		db:           db,
		photos:       photos,
		maxPhotoSize: int64(maxPhotoSizeMB) * 1024 * 1024,
	}
}

// ListInspections returns inspections, filterable by equipment and inspector.
func (h *InspectionHandler) ListInspections(c *fiber.Ctx) error {
	query := h.db.Order("performed_at DESC")
	if v := c.Query("equipment_id", ""); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Invalid equipment_id",
			})
		}
		query = query.Where("equipment_id = ?", id)
	}
	if v := c.Query("inspector", ""); v != "" {
		query = query.Where("inspector_name = ?", v)
	}

	var inspections []models.Inspection
	if err := query.Limit(500).Find(&inspections).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list inspections",
		})
	}
	return c.JSON(fiber.Map{"inspections": inspections})
}

func (h *InspectionHandler) CreateInspection(c *fiber.Ctx) error {
	var req struct {
		EquipmentID   string `json:"equipment_id"`
		InspectorName string `json:"inspector_name"`
		Result        string `json:"result"`
		Notes         string `json:"notes"`
		PerformedAt   string `json:"performed_at"` // RFC 3339, defaults to now
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	equipmentID, err := uuid.Parse(req.EquipmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid equipment_id",
		})
	}

	var equipment models.Equipment
	if err := h.db.First(&equipment, "id = ?", equipmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Equipment not found",
		})
	}

	performedAt := time.Now()
	if req.PerformedAt != "" {
		performedAt, err = time.Parse(time.RFC3339, req.PerformedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "performed_at must be RFC 3339",
			})
		}
	}

	// The inspector is recorded as free text, not a user reference. When the
	// field is omitted the caller's own name is denormalized in.
	inspectorName := strings.TrimSpace(req.InspectorName)
	if inspectorName == "" {
		uid, _ := c.Locals("uid").(string)
		var caller models.User
		if err := h.db.First(&caller, "id = ?", uid).Error; err == nil {
			inspectorName = caller.DisplayName()
		}
	}
	if inspectorName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "inspector_name is required",
		})
	}

	inspection := models.Inspection{
		EquipmentID:   equipmentID,
		InspectorName: inspectorName,
		Result:        req.Result,
		Notes:         req.Notes,
		PerformedAt:   performedAt,
	}
	if err := h.db.Create(&inspection).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create inspection",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(inspection)
}

func (h *InspectionHandler) GetInspection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid inspection ID",
		})
	}

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Inspection not found",
		})
	}
	return c.JSON(inspection)
}

func (h *InspectionHandler) UpdateInspection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid inspection ID",
		})
	}

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Inspection not found",
		})
	}

	var req struct {
		Result *string `json:"result"`
		Notes  *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.Result != nil {
		inspection.Result = *req.Result
	}
	if req.Notes != nil {
		inspection.Notes = *req.Notes
	}
	if err := h.db.Save(&inspection).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update inspection",
		})
	}
	return c.JSON(inspection)
}

func (h *InspectionHandler) DeleteInspection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid inspection ID",
		})
	}

	var photos []models.InspectionPhoto
	h.db.Where("inspection_id = ?", id).Find(&photos)

	if err := h.db.Delete(&models.Inspection{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete inspection",
		})
	}

	// Best-effort object cleanup; orphaned objects are harmless.
	for _, p := range photos {
		if err := h.photos.Delete(c.Context(), p.ObjectKey); err != nil {
			slog.Warn("Failed to delete photo object", "key", p.ObjectKey, "error", err)
		}
	}
	h.db.Delete(&models.InspectionPhoto{}, "inspection_id = ?", id)

	return c.JSON(fiber.Map{"message": "Inspection deleted"})
}

// UploadPhoto attaches a multipart photo to an inspection.
func (h *InspectionHandler) UploadPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid inspection ID",
		})
	}

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Inspection not found",
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "A photo file is required",
		})
	}
	if file.Size > h.maxPhotoSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   true,
			"message": "Photo exceeds the size limit",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to read uploaded file",
		})
	}
	defer src.Close()

	photo := models.InspectionPhoto{
		ID:           uuid.New(),
		InspectionID: id,
		FileName:     file.Filename,
		ContentType:  file.Header.Get("Content-Type"),
		SizeBytes:    file.Size,
	}
	photo.ObjectKey = storage.PhotoKey(id.String(), photo.ID.String(), file.Filename)

	if err := h.photos.Put(c.Context(), photo.ObjectKey, photo.ContentType, src, file.Size); err != nil {
		slog.Error("Photo upload failed", "key", photo.ObjectKey, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to store photo",
		})
	}

	if err := h.db.Create(&photo).Error; err != nil {
		// Keep the store and the table consistent.
		if delErr := h.photos.Delete(c.Context(), photo.ObjectKey); delErr != nil {
			slog.Warn("Failed to clean up photo object", "key", photo.ObjectKey, "error", delErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to save photo record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

func (h *InspectionHandler) ListPhotos(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid inspection ID",
		})
	}

	var photos []models.InspectionPhoto
	if err := h.db.Where("inspection_id = ?", id).Order("created_at").Find(&photos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list photos",
		})
	}
	return c.JSON(fiber.Map{"photos": photos})
}

// DownloadPhoto streams the photo bytes from object storage.
func (h *InspectionHandler) DownloadPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid photo ID",
		})
	}

	var photo models.InspectionPhoto
	if err := h.db.First(&photo, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Photo not found",
		})
	}

	body, contentType, err := h.photos.Get(c.Context(), photo.ObjectKey)
	if err != nil {
		slog.Error("Photo fetch failed", "key", photo.ObjectKey, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to fetch photo",
		})
	}

	if contentType == "" {
		contentType = photo.ContentType
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(body)
}

func (h *InspectionHandler) DeletePhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid photo ID",
		})
	}

	var photo models.InspectionPhoto
	if err := h.db.First(&photo, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Photo not found",
		})
	}

	if err := h.photos.Delete(c.Context(), photo.ObjectKey); err != nil {
		slog.Warn("Failed to delete photo object", "key", photo.ObjectKey, "error", err)
	}
	if err := h.db.Delete(&photo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete photo record",
		})
	}

	return c.JSON(fiber.Map{"message": "Photo deleted"})
}
