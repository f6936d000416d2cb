// Package validation provides custom validators for the application
package validation

import (
	"strings"

	"teamplan/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Initialize registers all custom validators
func Initialize() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("optype", validateOperationType); err != nil {
		panic(err)
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validateOperationType checks the value against the closed set of
// supported operation types
func validateOperationType(fl validator.FieldLevel) bool {
	return models.OperationType(fl.Field().String()).Valid()
}
