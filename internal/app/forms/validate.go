package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/validation"
)

// Messages shown to users for generic rule violations
const (
	MsgRequired        = "This field is required."
	MsgInvalidChoice   = "Select a valid choice. That choice is not one of the available choices."
	MsgPasswordMatch   = "The two password fields didn't match."
	MsgUsernameTaken   = "A user with that username already exists."
	MsgLicenseTaken    = "Driver with this License number already exists."
	MsgBadCredentials  = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgMaxLengthFormat = "Ensure this value has at most %s characters (it has %d)."
	msgPasswordShort   = "This password is too short. It must contain at least %s characters."
	msgInvalidChoiceOf = "Select a valid choice. %s is not one of the available choices."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("license_number", func(fl validator.FieldLevel) bool {
		return validation.CheckLicenseNumber(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("register license_number validation: %v", err))
	}

	return v
}

// validateStruct runs the validate tags of s and converts failures into a ValidationError.
func validateStruct(s interface{}) *apperrors.ValidationError {
	verr := apperrors.NewValidationError()

	err := validate.Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		verr.Add(apperrors.NonFieldErrors, err.Error())
		return verr
	}

	for _, fe := range fieldErrors {
		verr.Add(fe.Field(), fieldErrorMessage(fe))
	}
	return verr
}

// fieldErrorMessage creates a human-readable validation error message
func fieldErrorMessage(e validator.FieldError) string {
	value, _ := e.Value().(string)

	switch e.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf(msgMaxLengthFormat, e.Param(), utf8.RuneCountInString(value))
	case "min":
		return fmt.Sprintf(msgPasswordShort, e.Param())
	case "eqfield":
		return MsgPasswordMatch
	case "license_number":
		if err := validation.CheckLicenseNumber(value); err != nil {
			return err.Error()
		}
		return "Enter a valid license number."
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

func errOrNil(verr *apperrors.ValidationError) error {
	if verr.HasErrors() {
		return verr
	}
	return nil
}
