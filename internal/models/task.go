package models

import (
	"time"
)

const (
	TaskStatusNew        = "new"
	TaskStatusInProgress = "in progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          uint      `gorm:"column:task_id;primaryKey" json:"task_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	OwnerID     uint      `gorm:"column:task_owner_id;not null;index" json:"task_owner_id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner   *Employee `gorm:"foreignKey:OwnerID" json:"-"`
	Project *Project  `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskResponse is a task row joined with its resolved owner name and assignees.
type TaskResponse struct {
	Task
	OwnerName string          `json:"owner_name"`
	Assignees []EmployeeBrief `json:"assignees"`
}
