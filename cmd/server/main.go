package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mertcakir/rigcheck/internal/bootstrap"
	"github.com/mertcakir/rigcheck/internal/config"
	"github.com/mertcakir/rigcheck/internal/database"
	"github.com/mertcakir/rigcheck/internal/handlers"
	"github.com/mertcakir/rigcheck/internal/repository"
	"github.com/mertcakir/rigcheck/internal/routes"
	"github.com/mertcakir/rigcheck/internal/services"
	"github.com/mertcakir/rigcheck/internal/storage"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting rigcheck", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	cfg := config.Load()

	// ─── Database ────────────────────────────────────────────────────────
	if err := database.Connect(cfg); err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	db := database.DB

	if err := bootstrap.EnsureAdmin(db, cfg); err != nil {
		slog.Error("Admin bootstrap failed", "error", err)
		os.Exit(1)
	}
	if err := bootstrap.SeedDropdowns(db); err != nil {
		slog.Error("Dropdown seeding failed", "error", err)
		os.Exit(1)
	}

	// ─── Photo storage ──────────────────────────────────────────────────
	photoStore, err := storage.NewPhotoStore(context.Background(), cfg)
	if err != nil {
		slog.Error("Photo store initialization failed", "error", err)
		os.Exit(1)
	}

	// ─── Deletion workflow ──────────────────────────────────────────────
	deletionService := services.NewUserDeletionService(
		repository.NewIdentityStore(db),
		repository.NewUserStore(db),
		repository.NewInspectionStore(db),
		repository.NewNotificationStore(db),
		repository.NewAuditStore(db),
	)

	// ─── Handlers ───────────────────────────────────────────────────────
	authHandler := handlers.NewAuthHandler(repository.NewAccountStore(db), cfg)
	userHandler := handlers.NewUserHandler(db, deletionService)
	equipmentHandler := handlers.NewEquipmentHandler(db)
	inspectionHandler := handlers.NewInspectionHandler(db, photoStore, cfg.MaxPhotoSizeMB)
	dropdownHandler := handlers.NewDropdownHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)
	auditHandler := handlers.NewAuditHandler(db)
	systemHandler := handlers.NewSystemHandler(db)

	// ─── Fiber App ──────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "rigcheck v" + handlers.Version,
		ServerHeader: "rigcheck",
		BodyLimit:    (cfg.MaxPhotoSizeMB + 2) * 1024 * 1024, // photo uploads plus headroom
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Request logger
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Path() == "/api/health" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	// ─── Routes ─────────────────────────────────────────────────────────
	routes.Setup(app, cfg, authHandler, userHandler, equipmentHandler,
		inspectionHandler, dropdownHandler, notificationHandler,
		auditHandler, systemHandler)

	// ─── Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down rigcheck...")

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// ─── Start ──────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("rigcheck listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
