package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/middleware"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
)

const manufacturerListURL = "/manufacturers/"

// ManufacturerController handles manufacturer pages
type ManufacturerController struct {
	manufacturerService *services.ManufacturerService
}

// NewManufacturerController creates a new ManufacturerController
func NewManufacturerController(manufacturerService *services.ManufacturerService) *ManufacturerController {
	return &ManufacturerController{
		manufacturerService: manufacturerService,
	}
}

// List shows one page of manufacturers ordered by name
func (h *ManufacturerController) List(c *gin.Context) {
	page, err := h.manufacturerService.List(c.Request.Context(), helpers.ParsePage(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "manufacturer_list.html", listData("manufacturer_list", page.Items, page.Pagination))
}

func manufacturerFormData(title string, form *forms.Form) gin.H {
	return gin.H{"title": title, "form": form, "cancel_url": manufacturerListURL}
}

// CreatePage renders an empty manufacturer form
func (h *ManufacturerController) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "form.html",
		manufacturerFormData("Create manufacturer", forms.NewManufacturerForm(dto.ManufacturerRequest{})))
}

// Create stores a new manufacturer
func (h *ManufacturerController) Create(c *gin.Context) {
	var req dto.ManufacturerRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.Create(c.Request.Context(), req)
	if err != nil {
		renderFormError(c, err, "form.html", forms.NewManufacturerForm(req), manufacturerFormData("Create manufacturer", nil))
		return
	}
	redirect(c, manufacturerListURL, http.StatusCreated, manufacturer)
}

// UpdatePage renders the form filled with the current values
func (h *ManufacturerController) UpdatePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	form := forms.NewManufacturerForm(dto.ManufacturerRequest{Name: manufacturer.Name, Country: manufacturer.Country})
	render(c, http.StatusOK, "form.html", manufacturerFormData("Update manufacturer", form))
}

// Update replaces name and country
func (h *ManufacturerController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.ManufacturerRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.Update(c.Request.Context(), id, req)
	if err != nil {
		renderFormError(c, err, "form.html", forms.NewManufacturerForm(req), manufacturerFormData("Update manufacturer", nil))
		return
	}
	redirect(c, manufacturerListURL, http.StatusOK, manufacturer)
}

// DeletePage asks for confirmation
func (h *ManufacturerController) DeletePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "manufacturer_delete.html", gin.H{"title": "Delete manufacturer", "manufacturer": manufacturer})
}

// Delete removes the manufacturer together with its cars
func (h *ManufacturerController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.manufacturerService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	redirect(c, manufacturerListURL, http.StatusOK, gin.H{"id": id, "deleted": true})
}
