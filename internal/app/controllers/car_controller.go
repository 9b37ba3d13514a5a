package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/middleware"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
	"github.com/yigit/taxiservice/internal/pkg/websocket"
)

const carListURL = "/cars/"

// Labels of the assignment toggle button on the car detail page
const (
	LabelAssign   = "Assign me to this car"
	LabelUnassign = "Delete me for this car"
)

// CarController handles car pages and driver assignment
type CarController struct {
	carService *services.CarService
	live       *websocket.Handler
}

// NewCarController creates a new CarController. live may be nil, in which case
// the live feed endpoint answers 404.
func NewCarController(carService *services.CarService, live *websocket.Handler) *CarController {
	return &CarController{
		carService: carService,
		live:       live,
	}
}

// List shows one page of cars, optionally filtered by model
func (h *CarController) List(c *gin.Context) {
	var search dto.CarSearchRequest
	if err := c.ShouldBindQuery(&search); err != nil {
		search = dto.CarSearchRequest{}
	}

	page, err := h.carService.List(c.Request.Context(), helpers.ParsePage(c), search)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	term, _ := forms.ValidateCarSearch(search)
	data := listData("car_list", page.Items, page.Pagination)
	data["search_form"] = forms.NewCarSearchForm(search.Model)
	data["search"] = term
	render(c, http.StatusOK, "car_list.html", data)
}

func detailData(car *models.Car, driver *models.Driver) gin.H {
	assigned := driver != nil && car.HasDriver(driver.ID)
	label := LabelAssign
	if assigned {
		label = LabelUnassign
	}
	return gin.H{
		"title":        car.Model,
		"car":          car,
		"is_assigned":  assigned,
		"toggle_label": label,
	}
}

// Detail shows the car, its manufacturer and drivers
func (h *CarController) Detail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	car, err := h.carService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "car_detail.html", detailData(car, middleware.CurrentDriver(c)))
}

// ToggleAssignment assigns the current driver to the car or removes them, then shows the car again
func (h *CarController) ToggleAssignment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	driver := middleware.CurrentDriver(c)
	if driver == nil {
		middleware.HandleError(c, apperrors.ErrAuthenticationRequired)
		return
	}

	car, _, err := h.carService.ToggleAssignment(c.Request.Context(), id, driver.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "car_detail.html", detailData(car, driver))
}

// Live streams assignment changes of the car over a WebSocket
func (h *CarController) Live(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if h.live == nil {
		middleware.HandleError(c, apperrors.NewResourceNotFoundError("Live feed is disabled"))
		return
	}

	driver := middleware.CurrentDriver(c)
	if driver == nil {
		middleware.HandleError(c, apperrors.ErrAuthenticationRequired)
		return
	}

	if _, err := h.carService.Get(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	h.live.Serve(c, id, driver.ID)
}

func carFormData(title string) gin.H {
	return gin.H{"title": title, "cancel_url": carListURL}
}

// renderCarForm renders the car form bound to req, loading the current choices
func (h *CarController) renderCarForm(c *gin.Context, status int, title string, req dto.CarRequest, formErr error) {
	choices, err := h.carService.Choices(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	form := forms.NewCarForm(req, choices.Manufacturers, choices.Drivers)
	if formErr != nil {
		renderFormError(c, formErr, "form.html", form, carFormData(title))
		return
	}
	data := carFormData(title)
	data["form"] = form
	render(c, status, "form.html", data)
}

// CreatePage renders an empty car form
func (h *CarController) CreatePage(c *gin.Context) {
	h.renderCarForm(c, http.StatusOK, "Create car", dto.CarRequest{}, nil)
}

// Create stores a new car with its drivers
func (h *CarController) Create(c *gin.Context) {
	var req dto.CarRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	car, err := h.carService.Create(c.Request.Context(), req)
	if err != nil {
		h.renderCarForm(c, http.StatusBadRequest, "Create car", req, err)
		return
	}
	redirect(c, carListURL, http.StatusCreated, car)
}

// UpdatePage renders the form filled with the car's current values
func (h *CarController) UpdatePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	car, err := h.carService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	h.renderCarForm(c, http.StatusOK, "Update car", forms.CarRequestFrom(car), nil)
}

// Update replaces model, manufacturer and driver set
func (h *CarController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.CarRequest
	if err := bind(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	car, err := h.carService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.renderCarForm(c, http.StatusBadRequest, "Update car", req, err)
		return
	}
	redirect(c, carListURL, http.StatusOK, car)
}

// DeletePage asks for confirmation
func (h *CarController) DeletePage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	car, err := h.carService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	render(c, http.StatusOK, "car_delete.html", gin.H{"title": "Delete car", "car": car})
}

// Delete removes the car and its assignments
func (h *CarController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.carService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	redirect(c, carListURL, http.StatusOK, gin.H{"id": id, "deleted": true})
}
