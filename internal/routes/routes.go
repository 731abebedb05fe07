package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mertcakir/rigcheck/internal/config"
	"github.com/mertcakir/rigcheck/internal/handlers"
	"github.com/mertcakir/rigcheck/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	equipmentHandler *handlers.EquipmentHandler,
	inspectionHandler *handlers.InspectionHandler,
	dropdownHandler *handlers.DropdownHandler,
	notificationHandler *handlers.NotificationHandler,
	auditHandler *handlers.AuditHandler,
	systemHandler *handlers.SystemHandler,
) {
	// ─── Public ──────────────────────────────────────────────────────────
	app.Get("/api/health", systemHandler.Health)

	// ─── Auth ────────────────────────────────────────────────────────────
	app.Post("/api/auth/register", authHandler.Register)
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/refresh", authHandler.Refresh)

	// ─── Protected routes ────────────────────────────────────────────────
	api := app.Group("/api", middleware.JWTProtected(cfg.JWTSecret))

	// Auth (protected)
	api.Get("/auth/me", authHandler.Me)
	api.Put("/auth/profile", userHandler.UpdateProfile)

	// Dashboard
	api.Get("/dashboard/overview", systemHandler.DashboardOverview)

	// Equipment
	api.Get("/equipment", equipmentHandler.ListEquipment)
	api.Post("/equipment", equipmentHandler.CreateEquipment)
	api.Get("/equipment/:id", equipmentHandler.GetEquipment)
	api.Put("/equipment/:id", equipmentHandler.UpdateEquipment)
	api.Delete("/equipment/:id", equipmentHandler.DeleteEquipment)

	// Inspections
	api.Get("/inspections", inspectionHandler.ListInspections)
	api.Post("/inspections", inspectionHandler.CreateInspection)
	api.Get("/inspections/:id", inspectionHandler.GetInspection)
	api.Put("/inspections/:id", inspectionHandler.UpdateInspection)
	api.Delete("/inspections/:id", inspectionHandler.DeleteInspection)

	// Inspection photos
	api.Post("/inspections/:id/photos", inspectionHandler.UploadPhoto)
	api.Get("/inspections/:id/photos", inspectionHandler.ListPhotos)
	api.Get("/photos/:id/download", inspectionHandler.DownloadPhoto)
	api.Delete("/photos/:id", inspectionHandler.DeletePhoto)

	// Dropdown taxonomies (reads for everyone, writes for admins)
	api.Get("/dropdowns/:category", dropdownHandler.ListOptions)

	// Notifications
	api.Get("/notifications", notificationHandler.ListNotifications)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)

	// ─── Admin-only ──────────────────────────────────────────────────────
	admin := api.Group("", middleware.AdminOnly())

	admin.Post("/dropdowns/:category", dropdownHandler.CreateOption)
	admin.Put("/dropdowns/options/:id", dropdownHandler.UpdateOption)
	admin.Delete("/dropdowns/options/:id", dropdownHandler.DeleteOption)

	admin.Post("/notifications", notificationHandler.CreateNotification)
	admin.Delete("/notifications/:id", notificationHandler.DeleteNotification)

	admin.Get("/users", userHandler.ListUsers)
	admin.Post("/users/delete-complete", userHandler.DeleteUserComplete)

	admin.Get("/audit-logs", auditHandler.ListAuditLogs)
	admin.Get("/audit-logs/users/:uid", auditHandler.UserHistory)
}
