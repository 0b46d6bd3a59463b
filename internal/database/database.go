package database

import (
	"log"

	"github.com/glebarez/sqlite"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Initialize(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	DB = db
	log.Println("Database connected successfully")

	// Auto-migrate models
	if err := autoMigrate(); err != nil {
		return err
	}

	// Seed initial data
	if err := seedAdmin(cfg); err != nil {
		log.Printf("Warning: seed data error: %v", err)
	}

	return nil
}

func autoMigrate() error {
	return DB.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Task{},
		&models.ProjectMembership{},
		&models.TaskAssignment{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
