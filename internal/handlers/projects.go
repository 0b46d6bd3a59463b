package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/services"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	assignmentService *services.AssignmentService
}

func NewProjectHandler(assignmentService *services.AssignmentService) *ProjectHandler {
	return &ProjectHandler{assignmentService: assignmentService}
}

// ProjectRequest represents project create/update input. ManagerIDs and
// EmployeeIDs fully replace the project's membership roster.
type ProjectRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	ManagerIDs  []uint    `json:"manager_ids"`
	EmployeeIDs []uint    `json:"employee_ids"`
}

// CreateProject creates a project owned by the acting admin and reconciles
// its membership roster in the same transaction.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	employee, exists := middleware.CurrentEmployee(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusInProgress
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		OwnerID:     employee.ID,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return h.assignmentService.ReplaceProjectMembership(tx, project.ID, req.ManagerIDs, req.EmployeeIDs)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := buildProjectResponse(db, &project)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": response,
	})
}

// ListProjects returns every project with owner name and roster.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	db := database.GetDB()

	var projects []models.Project
	if err := db.Order("project_id").Find(&projects).Error; err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		response, err := buildProjectResponse(db, &projects[i])
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, *response)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": responses,
		"total":    len(responses),
	})
}

// GetProject returns one project with owner name and roster.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid project ID"})
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

	response, err := buildProjectResponse(db, &project)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": response})
}

// UpdateProject updates project fields and fully replaces its membership
// roster in one transaction.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid project ID"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
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

	project.Name = req.Name
	project.Description = req.Description
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate
	if req.Status != "" {
		project.Status = req.Status
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		return h.assignmentService.ReplaceProjectMembership(tx, project.ID, req.ManagerIDs, req.EmployeeIDs)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := buildProjectResponse(db, &project)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": response,
	})
}

// DeleteProject removes a project, its tasks and every related join row.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid project ID"})
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

	err = db.Transaction(func(tx *gorm.DB) error {
		return h.assignmentService.DeleteProject(tx, project.ID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// MarkCompleteRequest identifies the project to close out.
type MarkCompleteRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

// MarkComplete sets a project's status to Completed.
func (h *ProjectHandler) MarkComplete(c *gin.Context) {
	var req MarkCompleteRequest
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

	project.Status = models.ProjectStatusCompleted
	if err := db.Save(&project).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project marked as complete",
		"project": project,
	})
}

// GetEmployeeProjects returns the projects an employee belongs to via the
// membership table. Admins, managers or the employee themselves may call it.
func (h *ProjectHandler) GetEmployeeProjects(c *gin.Context) {
	employeeID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid employee ID"})
		return
	}

	db := database.GetDB()

	var employee models.Employee
	if err := db.First(&employee, "employee_id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
			return
		}
		respondError(c, err)
		return
	}

	var projects []models.Project
	if err := db.Joins("JOIN employee_project ON employee_project.project_id = projects.project_id").
		Where("employee_project.employee_id = ?", employeeID).
		Order("projects.project_id").
		Find(&projects).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}

// buildProjectResponse joins a project row with its owner name and the
// manager/member rosters from the membership table.
func buildProjectResponse(db *gorm.DB, project *models.Project) (*models.ProjectResponse, error) {
	response := &models.ProjectResponse{
		Project:  *project,
		Managers: []models.EmployeeBrief{},
		Members:  []models.EmployeeBrief{},
	}

	var owner models.Employee
	if err := db.First(&owner, "employee_id = ?", project.OwnerID).Error; err == nil {
		response.OwnerName = owner.Name
	}

	var roster []models.Employee
	if err := db.Joins("JOIN employee_project ON employee_project.employee_id = employee.employee_id").
		Where("employee_project.project_id = ?", project.ID).
		Order("employee.employee_id").
		Find(&roster).Error; err != nil {
		return nil, err
	}

	for _, e := range roster {
		switch e.Role {
		case models.RoleManager:
			response.Managers = append(response.Managers, e.ToBrief())
		case models.RoleMember:
			response.Members = append(response.Members, e.ToBrief())
		}
	}

	return response, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
