package forms

import (
	"errors"
	"html/template"

	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// Widget kinds understood by the form_fields template
const (
	WidgetText             = "text"
	WidgetPassword         = "password"
	WidgetSelect           = "select"
	WidgetCheckboxMultiple = "checkbox_multiple"
)

// Choice is one option of a select or checkbox widget
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Field describes one rendered input together with its bound value and errors
type Field struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Widget      string        `json:"widget"`
	Required    bool          `json:"required"`
	MaxLength   int           `json:"max_length,omitempty"`
	HelpText    template.HTML `json:"help_text,omitempty"`
	Placeholder string        `json:"placeholder,omitempty"`
	Value       string        `json:"value"`
	Choices     []Choice      `json:"choices,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
}

// Form is an ordered set of fields plus errors that belong to no single field
type Form struct {
	Fields         []*Field `json:"fields"`
	NonFieldErrors []string `json:"non_field_errors,omitempty"`
}

func newForm(fields ...*Field) *Form {
	return &Form{Fields: fields}
}

// Field returns the named field, or nil
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// HasErrors reports whether any field or non-field error is attached
func (f *Form) HasErrors() bool {
	if len(f.NonFieldErrors) > 0 {
		return true
	}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return true
		}
	}
	return false
}

// WithErrors attaches the messages of a validation error to the matching fields.
// Messages for unknown fields and other errors become non-field errors.
func (f *Form) WithErrors(err error) *Form {
	if err == nil {
		return f
	}

	verr, ok := apperrors.AsValidationError(err)
	if !ok {
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			f.NonFieldErrors = append(f.NonFieldErrors, custom.Message)
		} else {
			f.NonFieldErrors = append(f.NonFieldErrors, err.Error())
		}
		return f
	}

	for name, messages := range verr.Fields {
		if field := f.Field(name); field != nil && name != apperrors.NonFieldErrors {
			field.Errors = append(field.Errors, messages...)
			continue
		}
		f.NonFieldErrors = append(f.NonFieldErrors, messages...)
	}
	return f
}

func choicesFrom(selected []string, values, labels []string) []Choice {
	picked := make(map[string]bool, len(selected))
	for _, s := range selected {
		picked[s] = true
	}
	choices := make([]Choice, 0, len(values))
	for i, v := range values {
		choices = append(choices, Choice{Value: v, Label: labels[i], Selected: picked[v]})
	}
	return choices
}
