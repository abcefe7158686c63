package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single schema violation on a named request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field-level violation in a request so the
// client can fix them all in one round trip. The HTTP error handler renders
// it as a 400 with the field list attached.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fieldError(fe))
			}
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// fieldError converts a single validator.FieldError into its client-facing form.
func fieldError(fe validator.FieldError) FieldError {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return FieldError{Field: field, Message: field + " is required"}
	case "email":
		return FieldError{Field: field, Message: field + " must be a valid email"}
	case "min":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be at least %s characters", field, fe.Param())}
	default:
		return FieldError{Field: field, Message: fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())}
	}
}
