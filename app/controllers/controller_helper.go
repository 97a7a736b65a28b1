package controllers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to the frontend. The SPA switches on `error`, humans
// read `message`.
const (
	ErrCodeValidation         = "validation_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeNotFound           = "not_found"
	ErrCodeCategoryNotFound   = "category_not_found"
	ErrCodeDuplicateEmail     = "duplicate_email"
	ErrCodeTooLarge           = "too_large"
	ErrCodeUnsupportedType    = "unsupported_media_type"
	ErrCodeInternal           = "internal_server_error"
)

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func jsonValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   ErrCodeValidation,
		"message": "One or more fields are missing or invalid",
		"fields":  fields,
	})
}

// validationFields flattens validator errors into a field -> reason map.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if ok := AsValidationErrors(err, &verrs); ok {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return fields
	}
	fields["body"] = err.Error()
	return fields
}

// AsValidationErrors unwraps validator.ValidationErrors from err.
func AsValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}
