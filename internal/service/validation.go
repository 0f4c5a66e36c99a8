package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"docanalyzer/internal/domain"
)

// newRecordValidator builds the validator for canonical records. Field names
// in errors use the JSON names clients send.
func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		d, ok := domain.Quantity(fl.Field().String()).Decimal()
		return ok && !d.IsNegative()
	})

	return v
}

// validateRecord returns a *domain.ValidationError describing every invalid
// field, or nil.
func validateRecord(v *validator.Validate, data *domain.ExtractedData) error {
	err := v.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating record: %w", err)
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath drops the struct name from a namespace such as
// "ExtractedData.lineItems[0].quantity".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "category":
		names := make([]string, len(domain.Categories))
		for i, c := range domain.Categories {
			names[i] = string(c)
		}
		return "must be one of: " + strings.Join(names, ", ")
	case "quantity":
		return "must be a non-negative number"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
