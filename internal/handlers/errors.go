package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/services"
	"gorm.io/gorm"
)

// respondError maps service errors onto the HTTP taxonomy. Anything not
// recognized becomes a generic 500 so internal detail never leaks.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrManagerNotFound),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrSelfRoleChange),
		errors.Is(err, services.ErrIncompleteProfile),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrExchangeFailed),
		errors.Is(err, services.ErrProfileFailed):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
