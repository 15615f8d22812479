package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors name fields by their JSON or form tag
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
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
	}
}

// ValidationDetails translates validator errors into response details.
// Errors of any other kind yield no details.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: getValidationMessage(e),
			Tag:     e.Tag(),
		})
	}
	return details
}

// fieldPath drops the root struct name, so "QuotationRequest.items[0].short_description"
// reads "items[0].short_description".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Este campo es requerido"
	case "email":
		return "Formato de email inválido"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Debe tener al menos " + e.Param() + " caracteres"
		}
		if e.Type().Kind() == reflect.Slice {
			return "Debe tener al menos " + e.Param() + " elementos"
		}
		return "Debe ser al menos " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Debe tener como máximo " + e.Param() + " caracteres"
		}
		return "Debe ser como máximo " + e.Param()
	case "uuid":
		return "Formato de UUID inválido"
	case "oneof":
		return "Debe ser uno de: " + e.Param()
	case "gte":
		return "Debe ser mayor o igual a " + e.Param()
	case "gt":
		return "Debe ser mayor que " + e.Param()
	case "url":
		return "Formato de URL inválido"
	default:
		return "Valor inválido"
	}
}
