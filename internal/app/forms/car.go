package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/validation"
)

// SearchPlaceholder is shown inside the empty car search box
const SearchPlaceholder = "Search by model.."

// CarInput is the cleaned result of a valid car form
type CarInput struct {
	Model          string
	ManufacturerID int64
	DriverIDs      []int64
}

// NewCarForm describes the car create/update form. Choices list every manufacturer and driver.
func NewCarForm(req dto.CarRequest, manufacturers []models.Manufacturer, drivers []models.Driver) *Form {
	manufacturerValues := []string{""}
	manufacturerLabels := []string{"---------"}
	for _, m := range manufacturers {
		manufacturerValues = append(manufacturerValues, strconv.FormatInt(m.ID, 10))
		manufacturerLabels = append(manufacturerLabels, m.String())
	}

	driverValues := make([]string, 0, len(drivers))
	driverLabels := make([]string, 0, len(drivers))
	for _, d := range drivers {
		driverValues = append(driverValues, strconv.FormatInt(d.ID, 10))
		driverLabels = append(driverLabels, d.String())
	}

	return newForm(
		&Field{Name: "model", Label: "Model", Widget: WidgetText, Required: true, MaxLength: validation.NameMaxLength, Value: req.Model},
		&Field{Name: "manufacturer", Label: "Manufacturer", Widget: WidgetSelect, Required: true, Value: req.Manufacturer,
			Choices: choicesFrom([]string{req.Manufacturer}, manufacturerValues, manufacturerLabels)},
		&Field{Name: "drivers", Label: "Drivers", Widget: WidgetCheckboxMultiple,
			Choices: choicesFrom(req.Drivers, driverValues, driverLabels)},
	)
}

// CarRequestFrom pre-fills a car request from a stored car, for the update form
func CarRequestFrom(car *models.Car) dto.CarRequest {
	req := dto.CarRequest{
		Model:        car.Model,
		Manufacturer: strconv.FormatInt(car.ManufacturerID, 10),
	}
	for _, id := range car.DriverIDs() {
		req.Drivers = append(req.Drivers, strconv.FormatInt(id, 10))
	}
	return req
}

// ValidateCar checks req against the available manufacturer and driver choices
func ValidateCar(req dto.CarRequest, manufacturers []models.Manufacturer, drivers []models.Driver) (CarInput, error) {
	req.Model = strings.TrimSpace(req.Model)
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)

	verr := validateStruct(req)
	input := CarInput{Model: req.Model}

	if req.Manufacturer != "" {
		id, err := strconv.ParseInt(req.Manufacturer, 10, 64)
		if err != nil || !containsManufacturer(manufacturers, id) {
			verr.Add("manufacturer", MsgInvalidChoice)
		} else {
			input.ManufacturerID = id
		}
	}

	seen := make(map[int64]bool, len(req.Drivers))
	for _, raw := range req.Drivers {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || !containsDriver(drivers, id) {
			verr.Add("drivers", fmt.Sprintf(msgInvalidChoiceOf, raw))
			continue
		}
		if !seen[id] {
			seen[id] = true
			input.DriverIDs = append(input.DriverIDs, id)
		}
	}

	if verr.HasErrors() {
		return CarInput{}, verr
	}
	return input, nil
}

// NewCarSearchForm describes the search box above the car list
func NewCarSearchForm(model string) *Form {
	return newForm(&Field{
		Name:        "model",
		Label:       "",
		Widget:      WidgetText,
		MaxLength:   validation.CarSearchMaxLength,
		Placeholder: SearchPlaceholder,
		Value:       model,
	})
}

// ValidateCarSearch returns the search term, or "" with ok=false when the input is invalid.
func ValidateCarSearch(req dto.CarSearchRequest) (string, bool) {
	req.Model = strings.TrimSpace(req.Model)
	if verr := validateStruct(req); verr.HasErrors() {
		return "", false
	}
	return req.Model, true
}

func containsManufacturer(manufacturers []models.Manufacturer, id int64) bool {
	for _, m := range manufacturers {
		if m.ID == id {
			return true
		}
	}
	return false
}

func containsDriver(drivers []models.Driver, id int64) bool {
	for _, d := range drivers {
		if d.ID == id {
			return true
		}
	}
	return false
}
