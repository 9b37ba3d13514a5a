package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/middleware"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
)

const driverListURL = "/drivers/"

// DriverController handles driver pages
type DriverController struct {
	driverService *services.DriverService
}

// NewDriverController creates a new DriverController
func NewDriverController(driverService *services.DriverService) *DriverController {
	return &DriverController{
		driverService: driverService,
	}
}

func driverDetailURL(id int64) string {
	return fmt.Sprintf("%s%d/", driverListURL, id)
}

// List shows one page of drivers ordered by username
func (h *DriverController) List(c *gin.Context) {
	page, err := h.driverService.List(c.Request.Context(), helpers.ParsePage(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "driver_list.html", listData("driver_list", page.Items, page.Pagination))
}

// Detail shows the driver and the cars they are assigned to
func (h *DriverController) Detail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "driver_detail.html", gin.H{"title": driver.Username, "driver": driver})
}

// CreatePage renders the registration form
func (h *DriverController) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "form.html", gin.H{
		"title":      "Create driver",
		"form":       forms.NewDriverCreationForm(dto.DriverCreateRequest{}),
		"cancel_url": driverListURL,
	})
}

// Create registers a new driver
func (h *DriverController) Create(c *gin.Context) {
	var req dto.DriverCreateRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), req)
	if err != nil {
		renderFormError(c, err, "form.html", forms.NewDriverCreationForm(req),
			gin.H{"title": "Create driver", "cancel_url": driverListURL})
		return
	}
	redirect(c, driverListURL, http.StatusCreated, driver)
}

// LicenseUpdatePage renders the license form filled with the current number
func (h *DriverController) LicenseUpdatePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	render(c, http.StatusOK, "form.html", gin.H{
		"title":      "Update license number",
		"form":       forms.NewDriverLicenseUpdateForm(dto.DriverLicenseUpdateRequest{LicenseNumber: driver.LicenseNumber}),
		"cancel_url": driverDetailURL(id),
	})
}

// LicenseUpdate replaces the license number and returns to the driver page
func (h *DriverController) LicenseUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.DriverLicenseUpdateRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver, err := h.driverService.UpdateLicense(c.Request.Context(), id, req)
	if err != nil {
		renderFormError(c, err, "form.html", forms.NewDriverLicenseUpdateForm(req),
			gin.H{"title": "Update license number", "cancel_url": driverDetailURL(id)})
		return
	}
	redirect(c, driverDetailURL(id), http.StatusOK, driver)
}

// DeletePage asks for confirmation
func (h *DriverController) DeletePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "driver_delete.html", gin.H{"title": "Delete driver", "driver": driver})
}

// Delete removes the driver and their assignments
func (h *DriverController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	redirect(c, driverListURL, http.StatusOK, gin.H{"id": id, "deleted": true})
}
