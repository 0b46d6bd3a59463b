package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/services"
)

type AuthHandler struct {
	googleService *services.GoogleService
	config        *config.Config
}

func NewAuthHandler(googleService *services.GoogleService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		googleService: googleService,
		config:        cfg,
	}
}

// Login redirects the browser to Google's consent screen.
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.googleService.LoginURL())
}

// Callback completes the OAuth flow: exchanges the code, upserts the
// employee and sets the session cookie before sending the browser back to
// the frontend.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing authorization code"})
		return
	}

	_, session, err := h.googleService.Exchange(c.Request.Context(), c.Query("state"), code)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := h.config.SessionMaxAge * 3600
	c.SetCookie(middleware.SessionCookie, session, maxAge, "/", "", h.config.CookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.config.FrontendOrigin)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.config.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetUserDetails returns the authenticated employee.
func (h *AuthHandler) GetUserDetails(c *gin.Context) {
	employee, exists := middleware.CurrentEmployee(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": employee})
}
