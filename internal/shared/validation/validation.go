// Package validation runs struct-tag validation and flattens the result into a field map.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator configured to report JSON field names.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("hhmm", validateClock)
		_ = v.RegisterValidation("notblank", validateNotBlank)
		instance = v
	})
	return instance
}

// Struct validates s and returns field -> message, or nil when s is valid.
func Struct(s any) map[string]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = message(fe)
	}
	return fields
}

// Merge folds extra into dst, keeping the first message per field.
func Merge(dst map[string]string, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return dst
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "hhmm":
		return "must be a time formatted as HH:MM"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid identifier"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Pointer:
		if field.IsNil() {
			return false
		}
		if field.Elem().Kind() == reflect.String {
			return strings.TrimSpace(field.Elem().String()) != ""
		}
		return true
	default:
		return !field.IsZero()
	}
}
