package dto

// Request payloads accepted from HTML forms (form tags) or JSON clients (json tags).
// validate tags are evaluated by the forms package, not by gin binding.

// ManufacturerRequest is the body of manufacturer create/update
type ManufacturerRequest struct {
	Name    string `form:"name" json:"name" validate:"required,max=255"`
	Country string `form:"country" json:"country" validate:"required,max=255"`
}

// CarRequest is the body of car create/update. Ids arrive as strings and are parsed during validation.
type CarRequest struct {
	Model        string   `form:"model" json:"model" validate:"required,max=255"`
	Manufacturer string   `form:"manufacturer" json:"manufacturer" validate:"required"`
	Drivers      []string `form:"drivers" json:"drivers"`
}

// CarSearchRequest filters the car list
type CarSearchRequest struct {
	Model string `form:"model" json:"model" validate:"max=200"`
}

// DriverCreateRequest is the body of driver registration
type DriverCreateRequest struct {
	Username      string `form:"username" json:"username" validate:"required,max=150"`
	Password1     string `form:"password1" json:"password1" validate:"required,min=8"`
	Password2     string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
	FirstName     string `form:"first_name" json:"first_name" validate:"required,max=150"`
	LastName      string `form:"last_name" json:"last_name" validate:"required,max=150"`
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required,max=8,license_number"`
}

// DriverLicenseUpdateRequest replaces a driver's license number
type DriverLicenseUpdateRequest struct {
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required,max=8,license_number"`
}

// LoginRequest carries credentials from the login form
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}
