package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/services"
)

// SessionCookie is the name of the http-only cookie carrying the session token.
const SessionCookie = "access_token"

const employeeKey = "employee"

// AuthMiddleware resolves the session cookie to an employee record.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}

		employee, err := authService.Authenticate(cookie)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Session expired"})
			case errors.Is(err, services.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Employee no longer exists"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid session"})
			}
			return
		}

		c.Set(employeeKey, employee)
		c.Next()
	}
}

// RequireRole fails closed: any role not listed is rejected, admin included.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, exists := CurrentEmployee(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}

		for _, r := range roles {
			if employee.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Insufficient permissions"})
	}
}

// RequireRoleOrSelf allows the listed roles, or any employee whose own id is
// in the named path parameter.
func RequireRoleOrSelf(param string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, exists := CurrentEmployee(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid employee ID"})
			return
		}

		if employee.ID == uint(id) {
			c.Next()
			return
		}

		for _, r := range roles {
			if employee.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Insufficient permissions"})
	}
}

// CurrentEmployee extracts the authenticated employee from the context.
func CurrentEmployee(c *gin.Context) (*models.Employee, bool) {
	value, exists := c.Get(employeeKey)
	if !exists {
		return nil, false
	}
	employee, ok := value.(*models.Employee)
	return employee, ok
}
