package registration

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Messages shown inline for a failing field.
var Messages = map[Field]string{
	FieldFullName:        "Full name is required",
	FieldEmail:           "Enter a valid email address",
	FieldPhone:           "Phone number must be exactly 10 digits",
	FieldDateOfBirth:     "Date of birth is required",
	FieldAddress:         "Address is required",
	FieldPassword:        "Password must be at least 6 characters",
	FieldConfirmPassword: "Passwords do not match",
}

var validate = mustValidator()

func mustValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	custom := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"basicemail": func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		},
		"phone10": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("registration: register " + tag + ": " + err.Error())
		}
	}
	return v
}

// Errors maps a failing field to its message. An empty map means the draft
// passed every rule.
type Errors map[Field]string

// Has reports whether f failed validation.
func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Fields returns the failing fields in form order.
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, f := range Fields {
		if e.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Err converts a non-empty mapping into a *ValidationError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Errors: e}
}

// ValidationError reports every failing field of a draft.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// Validate checks every rule independently against d. Gender is optional and
// never reported.
func Validate(d Draft) Errors {
	errs := Errors{}
	err := validate.Struct(d)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error such as an unknown tag.
		panic("registration: validate: " + err.Error())
	}
	for _, fe := range fieldErrs {
		f := Field(fe.Field())
		if msg, ok := Messages[f]; ok {
			errs[f] = msg
		}
	}
	return errs
}
