package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/auth"
	"github.com/yigit/taxiservice/internal/pkg/logger"
)

// LoginURL is where anonymous HTML clients are sent
const LoginURL = "/accounts/login/"

const (
	sessionKey = "session"
	driverKey  = "driver"
)

// SessionDriverLoader resolves the driver a session belongs to
type SessionDriverLoader interface {
	SessionDriver(ctx context.Context, driverID int64) (*models.Driver, error)
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthMiddleware resolves the session cookie into the current driver
type AuthMiddleware struct {
	jwtService *auth.JWTService
	drivers    SessionDriverLoader
	cookie     CookieConfig
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, drivers SessionDriverLoader, cookie CookieConfig) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		drivers:    drivers,
		cookie:     cookie,
	}
}

// SessionAuth loads the session of every request. Invalid, expired or orphaned
// sessions are treated as anonymous and their cookie is cleared.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			if !errors.Is(err, auth.ErrExpiredToken) {
				logger.Debug().Err(err).Msg("Rejected session cookie")
			}
			m.clearCookie(c)
			c.Next()
			return
		}

		driver, err := m.drivers.SessionDriver(c.Request.Context(), claims.DriverID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrResourceNotFound) {
				HandleError(c, err)
				c.Abort()
				return
			}
			m.clearCookie(c)
			c.Next()
			return
		}

		c.Set(sessionKey, claims)
		c.Set(driverKey, driver)
		c.Next()
	}
}

// LoginRequired stops anonymous requests: HTML clients are redirected to the
// login page, JSON clients get 401.
func (m *AuthMiddleware) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentDriver(c) != nil {
			c.Next()
			return
		}

		if WantsJSON(c) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// StartSession issues a new session for driver and sets the cookie
func (m *AuthMiddleware) StartSession(c *gin.Context, driver *models.Driver) error {
	token, claims, err := m.jwtService.IssueSession(driver.ID, driver.Username)
	if err != nil {
		return err
	}
	m.setCookie(c, token)
	c.Set(sessionKey, claims)
	c.Set(driverKey, driver)
	return nil
}

// SaveSession re-signs the current session claims and refreshes the cookie
func (m *AuthMiddleware) SaveSession(c *gin.Context, claims *auth.Claims) error {
	token, err := m.jwtService.Sign(claims)
	if err != nil {
		return err
	}
	m.setCookie(c, token)
	c.Set(sessionKey, claims)
	return nil
}

// EndSession clears the cookie and forgets the current driver
func (m *AuthMiddleware) EndSession(c *gin.Context) {
	m.clearCookie(c)
	c.Set(sessionKey, nil)
	c.Set(driverKey, nil)
}

func (m *AuthMiddleware) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, int(m.jwtService.SessionLifetime()/time.Second), "/", "", m.cookie.Secure, true)
}

func (m *AuthMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// CurrentSession returns the claims of the request's session, if any
func CurrentSession(c *gin.Context) *auth.Claims {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}

// CurrentDriver returns the logged in driver, or nil for anonymous requests
func CurrentDriver(c *gin.Context) *models.Driver {
	value, ok := c.Get(driverKey)
	if !ok {
		return nil
	}
	driver, _ := value.(*models.Driver)
	return driver
}

// WantsJSON reports whether the client prefers JSON over HTML
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
