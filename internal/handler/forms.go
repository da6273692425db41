package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; a single Validate instance caches
// struct metadata.
var validate = validator.New()

// Form structs mirror the HTML forms one to one. The validator catches the
// shape problems (missing, too long) before the service runs its domain
// rules, so obviously broken submissions never leave the handler layer.

type signupForm struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8"`
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Next     string
}

type noteForm struct {
	Title string `validate:"required,max=100"`
	Text  string `validate:"max=100000"`
	Slug  string `validate:"max=100"`
}

type commentForm struct {
	Text string `validate:"required,max=3000"`
}

// formErrors turns validator output into the field→message map the templates
// consume. Field names are lowercased to match the form input names.
func formErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[""] = "invalid form submission"
		return out
	}
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

// formValues snapshots the submitted values for re-rendering a failed form.
func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = r.PostFormValue(f)
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
