package models

// ProjectMembership links managers and members to a project. Rows are never
// written individually; the assignment service replaces the full set for a
// project inside the surrounding transaction.
type ProjectMembership struct {
	ProjectID  uint `gorm:"primaryKey" json:"project_id"`
	EmployeeID uint `gorm:"primaryKey" json:"employee_id"`
}

func (ProjectMembership) TableName() string {
	return "employee_project"
}

// TaskAssignment links member-role employees to a task.
type TaskAssignment struct {
	TaskID     uint `gorm:"primaryKey" json:"task_id"`
	EmployeeID uint `gorm:"primaryKey" json:"employee_id"`
}

func (TaskAssignment) TableName() string {
	return "employee_task"
}
