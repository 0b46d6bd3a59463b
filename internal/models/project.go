package models

import (
	"time"
)

const (
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
)

type Project struct {
	ID          uint      `gorm:"column:project_id;primaryKey" json:"project_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	OwnerID     uint      `gorm:"column:project_owner_id;not null;index" json:"project_owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner *Employee `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectResponse is a project row joined with its resolved owner name and roster.
type ProjectResponse struct {
	Project
	OwnerName string          `json:"owner_name"`
	Managers  []EmployeeBrief `json:"managers"`
	Members   []EmployeeBrief `json:"members"`
}
