// file: internals/helpers/validator.go
package helper

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorMap mengubah error validator jadi map field → pesan
// untuk JsonValidationError.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "wajib diisi"
		case "email":
			msg = "format email tidak valid"
		case "min":
			msg = fmt.Sprintf("minimal %s", fe.Param())
		case "max":
			msg = fmt.Sprintf("maksimal %s", fe.Param())
		case "gt":
			msg = fmt.Sprintf("harus lebih dari %s", fe.Param())
		case "gte":
			msg = fmt.Sprintf("minimal %s", fe.Param())
		case "oneof":
			msg = fmt.Sprintf("harus salah satu dari: %s", fe.Param())
		default:
			msg = fmt.Sprintf("tidak valid (%s)", fe.Tag())
		}
		out[field] = append(out[field], msg)
	}
	return out
}
