package forms

import (
	"html/template"
	"strings"

	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/validation"
)

func licenseNumberField(value string) *Field {
	return &Field{
		Name:      "license_number",
		Label:     "License number",
		Widget:    WidgetText,
		Required:  true,
		MaxLength: validation.LicenseNumberLength,
		HelpText:  template.HTML(validation.LicenseNumberHelpText),
		Value:     value,
	}
}

// NewDriverCreationForm describes the registration form. Passwords are never echoed back.
func NewDriverCreationForm(req dto.DriverCreateRequest) *Form {
	return newForm(
		&Field{Name: "username", Label: "Username", Widget: WidgetText, Required: true, MaxLength: validation.UsernameMaxLength,
			HelpText: "Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only.", Value: req.Username},
		&Field{Name: "password1", Label: "Password", Widget: WidgetPassword, Required: true},
		&Field{Name: "password2", Label: "Password confirmation", Widget: WidgetPassword, Required: true,
			HelpText: "Enter the same password as before, for verification."},
		&Field{Name: "first_name", Label: "First name", Widget: WidgetText, Required: true, MaxLength: validation.PersonNameMaxLength, Value: req.FirstName},
		&Field{Name: "last_name", Label: "Last name", Widget: WidgetText, Required: true, MaxLength: validation.PersonNameMaxLength, Value: req.LastName},
		licenseNumberField(req.LicenseNumber),
	)
}

// NewDriverLicenseUpdateForm describes the license-only update form
func NewDriverLicenseUpdateForm(req dto.DriverLicenseUpdateRequest) *Form {
	return newForm(licenseNumberField(req.LicenseNumber))
}

// ValidateDriverCreate returns the cleaned request or a ValidationError.
// Passwords are taken verbatim; every other field is trimmed.
func ValidateDriverCreate(req dto.DriverCreateRequest) (dto.DriverCreateRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	return req, errOrNil(validateStruct(req))
}

// ValidateDriverLicenseUpdate returns the cleaned request or a ValidationError
func ValidateDriverLicenseUpdate(req dto.DriverLicenseUpdateRequest) (dto.DriverLicenseUpdateRequest, error) {
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	return req, errOrNil(validateStruct(req))
}
