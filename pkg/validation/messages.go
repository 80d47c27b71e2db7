package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage renders a single field error in plain English.
func DefaultMessage(field, tag, param string) string {
	field = strings.ToLower(field[:1]) + field[1:]

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, param)
	case "hexadecimal":
		return fmt.Sprintf("%s must be a hexadecimal string", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum of %s", field, param)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum of %s", field, param)
	default:
		return fmt.Sprintf("%s is not valid (%s)", field, tag)
	}
}

// Messages flattens a binding error into human-readable strings; a
// non-validation error (malformed JSON and the like) comes back as one
// generic entry.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"request body is not valid"}
	}

	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return out
}
