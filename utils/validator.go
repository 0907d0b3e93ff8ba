package utils

import (
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the validator tags on s and folds any failures into a
// single 400 AppError with human-readable messages.
func ValidateStruct(s interface{}) *AppError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var messages []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+param+" characters")
		case "max":
			messages = append(messages, field+" must be at most "+param+" characters")
		case "email":
			messages = append(messages, field+" must be a valid email")
		case "oneof":
			messages = append(messages, field+" must be one of: "+param)
		default:
			messages = append(messages, field+" is invalid")
		}
	}

	return ValidationError(strings.Join(messages, ", "))
}

// ValidateEmailFormat applies the stricter RFC-level format check used at
// registration, on top of the validator email tag.
func ValidateEmailFormat(email string) *AppError {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ValidationError("email must be a valid email")
	}
	return nil
}
