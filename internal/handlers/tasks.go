package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/services"
	"gorm.io/gorm"
)

type TaskHandler struct {
	assignmentService *services.AssignmentService
}

func NewTaskHandler(assignmentService *services.AssignmentService) *TaskHandler {
	return &TaskHandler{assignmentService: assignmentService}
}

// TaskRequest represents task create/update input. EmployeeIDs fully
// replaces the task's assignee set.
type TaskRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	ProjectID   uint      `json:"project_id" binding:"required"`
	EmployeeIDs []uint    `json:"employee_ids"`
}

// CreateTask creates a task under an existing project, owned by the acting
// user, and reconciles its assignees in the same transaction.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	employee, exists := middleware.CurrentEmployee(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, "project_id = ?", req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		respondError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusNew
	}

	task := models.Task{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      status,
		OwnerID:     employee.ID,
		ProjectID:   project.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return h.assignmentService.ReplaceTaskAssignments(tx, task.ID, req.EmployeeIDs)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := buildTaskResponse(db, &task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    response,
	})
}

// ListTasks returns all tasks, optionally filtered by project.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("task_id")
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		response, err := buildTaskResponse(db, &tasks[i])
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, *response)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": responses,
		"total": len(responses),
	})
}

// GetTask returns one task with owner name and assignees.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid task ID"})
		return
	}

	db := database.GetDB()

	var task models.Task
	if err := db.First(&task, "task_id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
			return
		}
		respondError(c, err)
		return
	}

	response, err := buildTaskResponse(db, &task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": response})
}

// UpdateTask updates task fields and fully replaces its assignee set in one
// transaction.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid task ID"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := database.GetDB()

	var task models.Task
	if err := db.First(&task, "task_id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
			return
		}
		respondError(c, err)
		return
	}

	if req.ProjectID != task.ProjectID {
		var project models.Project
		if err := db.First(&project, "project_id = ?", req.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
				return
			}
			respondError(c, err)
			return
		}
		task.ProjectID = req.ProjectID
	}

	task.Name = req.Name
	task.Description = req.Description
	task.DueDate = req.DueDate
	if req.Status != "" {
		task.Status = req.Status
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return h.assignmentService.ReplaceTaskAssignments(tx, task.ID, req.EmployeeIDs)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := buildTaskResponse(db, &task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    response,
	})
}

// DeleteTask removes a task and its assignment rows.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid task ID"})
		return
	}

	db := database.GetDB()

	var task models.Task
	if err := db.First(&task, "task_id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
			return
		}
		respondError(c, err)
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return h.assignmentService.DeleteTask(tx, task.ID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateStatusRequest identifies the task and its new status.
type UpdateStatusRequest struct {
	TaskID uint   `json:"task_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus changes only the status field. Members may call it, but
// only on tasks they are assigned to.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	employee, exists := middleware.CurrentEmployee(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := database.GetDB()

	var task models.Task
	if err := db.First(&task, "task_id = ?", req.TaskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
			return
		}
		respondError(c, err)
		return
	}

	if employee.Role == models.RoleMember {
		var count int64
		if err := db.Model(&models.TaskAssignment{}).
			Where("task_id = ? AND employee_id = ?", task.ID, employee.ID).
			Count(&count).Error; err != nil {
			respondError(c, err)
			return
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Task is not assigned to you"})
			return
		}
	}

	task.Status = req.Status
	if err := db.Save(&task).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated",
		"task":    task,
	})
}

// GetProjectEmployeeTasks returns an employee's tasks within a project.
// Admins, managers or the employee themselves may call it.
func (h *TaskHandler) GetProjectEmployeeTasks(c *gin.Context) {
	projectID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid project ID"})
		return
	}
	employeeID, err := parseID(c.Param("employeeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid employee ID"})
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, "project_id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		respondError(c, err)
		return
	}

	var tasks []models.Task
	if err := db.Joins("JOIN employee_task ON employee_task.task_id = tasks.task_id").
		Where("tasks.project_id = ? AND employee_task.employee_id = ?", projectID, employeeID).
		Order("tasks.task_id").
		Find(&tasks).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// buildTaskResponse joins a task row with its owner name and assignees.
func buildTaskResponse(db *gorm.DB, task *models.Task) (*models.TaskResponse, error) {
	response := &models.TaskResponse{
		Task:      *task,
		Assignees: []models.EmployeeBrief{},
	}

	var owner models.Employee
	if err := db.First(&owner, "employee_id = ?", task.OwnerID).Error; err == nil {
		response.OwnerName = owner.Name
	}

	var assignees []models.Employee
	if err := db.Joins("JOIN employee_task ON employee_task.employee_id = employee.employee_id").
		Where("employee_task.task_id = ?", task.ID).
		Order("employee.employee_id").
		Find(&assignees).Error; err != nil {
		return nil, err
	}

	for _, e := range assignees {
		response.Assignees = append(response.Assignees, e.ToBrief())
	}

	return response, nil
}
