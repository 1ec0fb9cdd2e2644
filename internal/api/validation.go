package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SetupValidator registers custom rules and reports fields by their wire names
func SetupValidator() {
	v, isValidator := binding.Validator.Engine().(*validator.Validate)
	if !isValidator {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		_, err := models.ParseItemType(fl.Field().String())
		return err == nil
	})
}

// badRequest answers a binding or validation failure with per-field details
func badRequest(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fail(c, http.StatusBadRequest, "Malformed request: "+err.Error())
		return
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		details = append(details, FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success:   false,
		Error:     "Request validation failed",
		Details:   details,
		RequestID: c.GetString(requestIDKey),
	})
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "url":
		return "Must be a valid URL"
	case "itemtype":
		return "Must be meal or restaurant"
	default:
		return "Invalid value"
	}
}
