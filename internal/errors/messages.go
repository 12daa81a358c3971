package errors

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func fieldMessage(fe validator.FieldError) string {
	name := humanize(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", humanize(strings.TrimSuffix(fe.Field(), "_confirmation")))
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

func humanize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
