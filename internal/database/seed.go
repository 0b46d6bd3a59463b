package database

import (
	"log"

	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/models"
)

// seedAdmin creates a bootstrap admin if no admin-role employee exists yet.
// First OAuth logins always land as members, so without this nobody could
// reach the admin endpoints on a fresh database.
func seedAdmin(cfg *config.Config) error {
	var count int64
	if err := DB.Model(&models.Employee{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.Employee{
		Name:  cfg.AdminName,
		Email: cfg.AdminEmail,
		Role:  models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin employee (email: %s)", cfg.AdminEmail)
	return nil
}
