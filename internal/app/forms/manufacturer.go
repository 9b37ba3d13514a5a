package forms

import (
	"strings"

	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/validation"
)

// NewManufacturerForm describes the manufacturer create/update form bound to req
func NewManufacturerForm(req dto.ManufacturerRequest) *Form {
	return newForm(
		&Field{Name: "name", Label: "Name", Widget: WidgetText, Required: true, MaxLength: validation.NameMaxLength, Value: req.Name},
		&Field{Name: "country", Label: "Country", Widget: WidgetText, Required: true, MaxLength: validation.NameMaxLength, Value: req.Country},
	)
}

// ValidateManufacturer returns the cleaned request or a ValidationError
func ValidateManufacturer(req dto.ManufacturerRequest) (dto.ManufacturerRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.TrimSpace(req.Country)
	return req, errOrNil(validateStruct(req))
}
