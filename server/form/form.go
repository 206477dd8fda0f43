// Package form validates the admin forms before anything is sent to the
// backend.
package form

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field to the message shown next to it. The empty key
// holds errors that do not belong to a single field.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, e[k])
			continue
		}
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field string, msg string) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = msg
}

type messager interface {
	// messages is keyed by "<field>.<validation tag>".
	messages() map[string]string
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

type Validator struct {
	validate *validator.Validate
}

// Struct validates form and returns nil when it is valid.
func (v *Validator) Struct(form any) Errors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{"": err.Error()}
	}

	var messages map[string]string
	if m, ok := form.(messager); ok {
		messages = m.messages()
	}

	errs := Errors{}
	for _, fe := range validationErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		errs.Add(fe.Field(), msg)
	}
	return errs
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "email":
		return "Must be a valid email address"
	default:
		return "Invalid value"
	}
}
