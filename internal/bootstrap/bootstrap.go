// Package bootstrap prepares first-run state: the initial admin account and
// the default dropdown taxonomies.
package bootstrap

import (
	"log/slog"

	"github.com/mertcakir/rigcheck/internal/config"
	"github.com/mertcakir/rigcheck/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
// Without ADMIN_PASSWORD set the step is skipped so a fresh install is not
// left with a known credential.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		slog.Warn("No admin exists and ADMIN_PASSWORD is not set, skipping admin bootstrap")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Role:     "admin",
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Credential{
			UserID:       admin.ID,
			PasswordHash: string(hash),
		}).Error; err != nil {
			return err
		}
		slog.Info("Bootstrap admin created", "username", admin.Username)
		return nil
	})
}

var defaultDropdowns = map[string][]string{
	models.DropdownEquipmentCategory: {"crane", "forklift", "compressor", "generator", "pressure-vessel"},
	models.DropdownLocation:          {"plant-a", "plant-b", "warehouse", "yard"},
	models.DropdownStatus:            {"active", "maintenance", "decommissioned"},
	models.DropdownResult:            {"pass", "fail", "needs-repair"},
}

// SeedDropdowns inserts the default option lists for any category that has
// no options yet. Admin edits are never overwritten.
func SeedDropdowns(db *gorm.DB) error {
	for category, values := range defaultDropdowns {
		var count int64
		if err := db.Model(&models.DropdownOption{}).Where("category = ?", category).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for i, value := range values {
			if err := db.Create(&models.DropdownOption{
				Category:  category,
				Value:     value,
				Label:     value,
				SortOrder: i,
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
