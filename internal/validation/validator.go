// Package validation wraps go-playground/validator so the same rules apply to
// HTTP payloads (via echo) and to service inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

// Validator satisfies echo.Validator and is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports JSON field names and understands
// decimal.Decimal values.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(itemPriceRules, model.NewItem{}, model.ItemPatch{})
	return &Validator{v: v}
}

// itemPriceRules checks price against the column it is stored in. It works on
// the decimal itself since the float seen by field tags drops digits.
func itemPriceRules(sl validator.StructLevel) {
	var price *decimal.Decimal
	switch item := sl.Current().Interface().(type) {
	case model.NewItem:
		price = item.Price
	case model.ItemPatch:
		price = item.Price
	}
	if price == nil {
		return
	}
	if !price.Equal(price.Truncate(model.PriceScale)) {
		sl.ReportError(*price, "price", "Price", "price_scale", strconv.Itoa(model.PriceScale))
	}
	if price.GreaterThanOrEqual(model.MaxPrice) {
		sl.ReportError(*price, "price", "Price", "price_max", model.MaxPrice.String())
	}
}

// Validate checks struct tags and returns a *errors.ValidationError listing
// every failed field.
func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return apperrors.NewValidationError(strings.Join(msgs, "; "))
		}
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "price_scale":
		return fmt.Sprintf("%s must have at most %s decimal places", field, fe.Param())
	case "price_max":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
