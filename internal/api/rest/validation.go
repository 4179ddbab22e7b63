package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/domain"
)

var registerOnce sync.Once

// registerValidators installs the eth_checksum tag and reports fields by their JSON or query name
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin validator engine is not go-playground/validator")
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		if err := v.RegisterValidation("eth_checksum", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseAddress(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(err)
		}
	})
}

// validationDetails converts a binding error into per-field details
func validationDetails(err error) *apierrors.ValidationDetails {
	details := apierrors.NewValidationDetails()

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			details.AddField(fe.Field(), fieldMessage(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			details.AddForm(fmt.Sprintf("Expected object, received %s", typeErr.Value))
			break
		}
		details.AddField(field, fmt.Sprintf("Expected %s, received %s", expectedType(typeErr.Type), typeErr.Value))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		details.AddForm("Malformed JSON body")
	case errors.Is(err, io.EOF):
		details.AddForm("Required")
	default:
		details.AddForm(err.Error())
	}

	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Array must contain at most %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "url":
		return "Invalid url"
	case "eth_addr", "eth_checksum":
		return "Invalid Ethereum address"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

func expectedType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "non-negative integer"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice:
		return "array"
	default:
		return t.String()
	}
}
