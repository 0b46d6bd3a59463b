package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/services"
	"gorm.io/gorm"
)

type EmployeeHandler struct {
	assignmentService *services.AssignmentService
}

func NewEmployeeHandler(assignmentService *services.AssignmentService) *EmployeeHandler {
	return &EmployeeHandler{assignmentService: assignmentService}
}

// ListEmployees returns all employees.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	h.listByRole(c, "")
}

// ListManagers returns manager-role employees.
func (h *EmployeeHandler) ListManagers(c *gin.Context) {
	h.listByRole(c, models.RoleManager)
}

// ListMembers returns member-role employees.
func (h *EmployeeHandler) ListMembers(c *gin.Context) {
	h.listByRole(c, models.RoleMember)
}

func (h *EmployeeHandler) listByRole(c *gin.Context, role models.Role) {
	db := database.GetDB()

	query := db.Order("employee_id")
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": employees,
		"total":     len(employees),
	})
}

// GetEmployee returns one employee.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employeeID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid employee ID"})
		return
	}

	var employee models.Employee
	if err := database.GetDB().First(&employee, "employee_id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// EmployeeRequest represents explicit employee creation input.
type EmployeeRequest struct {
	Name  string      `json:"name" binding:"required"`
	Email string      `json:"email" binding:"required,email"`
	Role  models.Role `json:"role" binding:"required"`
}

// CreateEmployee creates an employee record directly, without OAuth login.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Role must be admin, manager or member"})
		return
	}

	db := database.GetDB()

	var existing models.Employee
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}

	employee := models.Employee{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := db.Create(&employee).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee created successfully",
		"employee": employee,
	})
}

// UpdateEmployeeRequest carries profile fields; role changes go through
// ChangeRole so the assignment cascade always runs.
type UpdateEmployeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateEmployee updates an employee's name and email.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	employeeID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid employee ID"})
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
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

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Email != "" {
		employee.Email = req.Email
	}

	if err := db.Save(&employee).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee updated successfully",
		"employee": employee,
	})
}

// DeleteEmployee removes an employee and their join rows.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
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

	err = db.Transaction(func(tx *gorm.DB) error {
		return h.assignmentService.DeleteEmployee(tx, employee.ID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// ChangeRoleRequest identifies the employee and the role to move them to.
type ChangeRoleRequest struct {
	EmployeeID uint        `json:"employee_id" binding:"required"`
	Role       models.Role `json:"role" binding:"required"`
}

// ChangeRole updates an employee's role and strips memberships and
// assignments inconsistent with the new role, in one transaction. Admins may
// not change their own role.
func (h *EmployeeHandler) ChangeRole(c *gin.Context) {
	actor, exists := middleware.CurrentEmployee(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Role must be admin, manager or member"})
		return
	}

	if req.EmployeeID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot change your own role"})
		return
	}

	db := database.GetDB()

	var employee models.Employee
	if err := db.First(&employee, "employee_id = ?", req.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
			return
		}
		respondError(c, err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&employee).Update("role", req.Role).Error; err != nil {
			return err
		}
		return h.assignmentService.CascadeRoleChange(tx, employee.ID, req.Role)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	employee.Role = req.Role
	c.JSON(http.StatusOK, gin.H{
		"message":  "Role updated successfully",
		"employee": employee,
	})
}
