package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/middleware"
)

// HomeController serves the dashboard
type HomeController struct {
	homeService *services.HomeService
	sessions    *middleware.AuthMiddleware
}

// NewHomeController creates a new HomeController
func NewHomeController(homeService *services.HomeService, sessions *middleware.AuthMiddleware) *HomeController {
	return &HomeController{
		homeService: homeService,
		sessions:    sessions,
	}
}

// Index shows the record counts and how many times this session opened the page
func (h *HomeController) Index(c *gin.Context) {
	stats, err := h.homeService.Stats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	visits := 0
	if claims := middleware.CurrentSession(c); claims != nil {
		claims.Visits++
		if err := h.sessions.SaveSession(c, claims); err != nil {
			middleware.HandleError(c, err)
			return
		}
		visits = claims.Visits
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"num_drivers":       stats.NumDrivers,
		"num_cars":          stats.NumCars,
		"num_manufacturers": stats.NumManufacturers,
		"num_visits":        visits,
	})
}
