package forms

import (
	"strings"

	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/validation"
)

// NewLoginForm describes the login form. The password is never echoed back.
func NewLoginForm(req dto.LoginRequest) *Form {
	return newForm(
		&Field{Name: "username", Label: "Username", Widget: WidgetText, Required: true, MaxLength: validation.UsernameMaxLength, Value: req.Username},
		&Field{Name: "password", Label: "Password", Widget: WidgetPassword, Required: true},
	)
}

// ValidateLogin checks that both credentials are present
func ValidateLogin(req dto.LoginRequest) (dto.LoginRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	return req, errOrNil(validateStruct(req))
}
