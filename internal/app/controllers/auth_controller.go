package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/middleware"
)

const loginTemplate = "login.html"

// AuthController handles login and logout
type AuthController struct {
	authService *services.AuthService
	sessions    *middleware.AuthMiddleware
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, sessions *middleware.AuthMiddleware, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// LoginPage renders the empty login form
func (h *AuthController) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, loginTemplate, gin.H{
		"form": forms.NewLoginForm(dto.LoginRequest{}),
		"next": c.Query("next"),
	})
}

// Login verifies the credentials, starts a session and redirects to next
func (h *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	driver, err := h.authService.Authenticate(c.Request.Context(), req)
	if err != nil {
		renderFormError(c, err, loginTemplate, forms.NewLoginForm(req), gin.H{"next": req.Next})
		return
	}

	if err := h.sessions.StartSession(c, driver); err != nil {
		h.logger.Error().Err(err).Int64("driverID", driver.ID).Msg("Failed to start session")
		middleware.HandleError(c, err)
		return
	}

	h.logger.Info().Int64("driverID", driver.ID).Str("username", driver.Username).Msg("Driver logged in")
	redirect(c, safeRedirect(req.Next), http.StatusOK, driver)
}

// Logout ends the session and returns to the login page
func (h *AuthController) Logout(c *gin.Context) {
	if driver := middleware.CurrentDriver(c); driver != nil {
		h.logger.Info().Int64("driverID", driver.ID).Msg("Driver logged out")
	}
	h.sessions.EndSession(c)
	redirect(c, middleware.LoginURL, http.StatusOK, gin.H{"logged_out": true})
}

// safeRedirect accepts only local absolute paths and falls back to the home page
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
