package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionMaxAge: 24,
		AppName:       "TrackerTest",
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Task{},
		&models.ProjectMembership{},
		&models.TaskAssignment{},
	))

	database.DB = db
	return db
}

func createEmployee(t *testing.T, db *gorm.DB, name string, role models.Role) models.Employee {
	t.Helper()

	employee := models.Employee{
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}

func membershipCount(t *testing.T, db *gorm.DB, projectID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.ProjectMembership{}).Where("project_id = ?", projectID).Count(&count).Error)
	return count
}
