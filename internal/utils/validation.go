package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	pinCodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// enum is implemented by every closed set of string values in models.
type enum interface {
	IsValid() bool
}

// Validator returns the shared validator with the portal's custom tags:
//
//	valid_enum  value implements IsValid() and reports true
//	pincode     6 digit Indian PIN code
//	in_phone    valid Indian phone number
//	date_value  YYYY-MM-DD or RFC3339 date string
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("valid_enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(enum)
			return ok && e.IsValid()
		})
		_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pinCodePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("in_phone", func(fl validator.FieldLevel) bool {
			return IsValidIndianPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("date_value", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseDate(fl.Field().String())
			return ok
		})

		validate = v
	})
	return validate
}

// ValidateStruct runs the struct's validate tags and converts failures into
// a field-indexed ValidationError keyed by JSON path.
func ValidateStruct(s interface{}) *models.ValidationError {
	result := &models.ValidationError{}

	err := Validator().Struct(s)
	if err == nil {
		return result
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		result.Add("body", err.Error())
		return result
	}

	for _, fe := range fieldErrors {
		result.Add(fieldPath(fe), fieldMessage(fe))
	}
	return result
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	isString := fe.Kind() == reflect.String

	switch {
	case tag == "required":
		return "is required"
	case strings.HasPrefix(tag, "valid_enum"):
		return fmt.Sprintf("%q is not an allowed value", fmt.Sprint(fe.Value()))
	case tag == "pincode":
		return "must be a 6 digit Indian PIN code"
	case tag == "in_phone":
		return "must be a valid Indian phone number"
	case tag == "date_value":
		return "must be a date in YYYY-MM-DD format"
	case tag == "email":
		return "must be a valid email address"
	case tag == "url":
		return "must be a valid URL"
	case tag == "numeric":
		return "must contain only digits"
	case tag == "alphanum":
		return "must contain only letters and digits"
	case tag == "len" && isString:
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case tag == "min" && isString:
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case tag == "max" && isString:
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case tag == "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case tag == "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case tag == "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
