package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/tracker-platform/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrManagerNotFound  = errors.New("manager not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrSelfRoleChange   = errors.New("cannot change your own role")
)

// AssignmentService keeps the employee_project and employee_task join tables
// consistent with roles. Every method takes the caller's transaction so the
// parent write and the join rows commit or roll back together.
type AssignmentService struct{}

func NewAssignmentService() *AssignmentService {
	return &AssignmentService{}
}

// ReplaceProjectMembership validates the supplied id lists and swaps the
// project's full membership set for them. Manager slots must resolve to
// manager-role employees and member slots to member-role employees; any
// unknown id aborts before existing rows are touched.
func (s *AssignmentService) ReplaceProjectMembership(tx *gorm.DB, projectID uint, managerIDs, employeeIDs []uint) error {
	rows := make([]models.ProjectMembership, 0, len(managerIDs)+len(employeeIDs))
	seen := make(map[uint]bool)

	for _, id := range managerIDs {
		if err := requireRole(tx, id, models.RoleManager, ErrManagerNotFound); err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.ProjectMembership{ProjectID: projectID, EmployeeID: id})
	}

	for _, id := range employeeIDs {
		if err := requireRole(tx, id, models.RoleMember, ErrEmployeeNotFound); err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.ProjectMembership{ProjectID: projectID, EmployeeID: id})
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMembership{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ReplaceTaskAssignments swaps the task's full assignee set for the supplied
// ids. Only member-role employees may be assigned to tasks.
func (s *AssignmentService) ReplaceTaskAssignments(tx *gorm.DB, taskID uint, employeeIDs []uint) error {
	rows := make([]models.TaskAssignment, 0, len(employeeIDs))
	seen := make(map[uint]bool)

	for _, id := range employeeIDs {
		if err := requireRole(tx, id, models.RoleMember, ErrEmployeeNotFound); err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.TaskAssignment{TaskID: taskID, EmployeeID: id})
	}

	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// CascadeRoleChange strips join rows that are inconsistent with an employee's
// new role. A member may still hold task assignments, so demotion to member
// only clears project membership; the other two roles are eligible for
// neither join table.
func (s *AssignmentService) CascadeRoleChange(tx *gorm.DB, employeeID uint, newRole models.Role) error {
	switch newRole {
	case models.RoleMember:
		return tx.Where("employee_id = ?", employeeID).Delete(&models.ProjectMembership{}).Error
	case models.RoleManager, models.RoleAdmin:
		if err := tx.Where("employee_id = ?", employeeID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("employee_id = ?", employeeID).Delete(&models.ProjectMembership{}).Error
	}
	return ErrInvalidRole
}

// DeleteProject removes a project together with its tasks and every join row
// referencing it or its tasks.
func (s *AssignmentService) DeleteProject(tx *gorm.DB, projectID uint) error {
	var taskIDs []uint
	if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("task_id", &taskIDs).Error; err != nil {
		return err
	}

	if len(taskIDs) > 0 {
		if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMembership{}).Error; err != nil {
		return err
	}
	return tx.Where("project_id = ?", projectID).Delete(&models.Project{}).Error
}

// DeleteTask removes a task and its assignment rows.
func (s *AssignmentService) DeleteTask(tx *gorm.DB, taskID uint) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("task_id = ?", taskID).Delete(&models.Task{}).Error
}

// DeleteEmployee removes an employee and their join rows. Projects and tasks
// they own are left in place.
func (s *AssignmentService) DeleteEmployee(tx *gorm.DB, employeeID uint) error {
	if err := tx.Where("employee_id = ?", employeeID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("employee_id = ?", employeeID).Delete(&models.ProjectMembership{}).Error; err != nil {
		return err
	}
	return tx.Where("employee_id = ?", employeeID).Delete(&models.Employee{}).Error
}

func requireRole(tx *gorm.DB, employeeID uint, role models.Role, notFound error) error {
	var count int64
	if err := tx.Model(&models.Employee{}).
		Where("employee_id = ? AND role = ?", employeeID, role).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: employee with ID %d", notFound, employeeID)
	}
	return nil
}
