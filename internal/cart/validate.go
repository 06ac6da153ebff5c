package cart

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldLabels = map[string]string{
	"full_name": "Full name",
	"email":     "Email",
	"phone":     "Phone number",
	"address":   "Address",
	"city":      "City",
	"state":     "State",
	"pincode":   "PIN code",
}

var fieldDigits = map[string]int{
	"phone":   10,
	"pincode": 6,
}

// ValidationError carries one message per rejected field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalize trims surrounding whitespace from every field.
func (s ShippingInfo) Normalize() ShippingInfo {
	return ShippingInfo{
		FullName: strings.TrimSpace(s.FullName),
		Email:    strings.TrimSpace(s.Email),
		Phone:    strings.TrimSpace(s.Phone),
		Address:  strings.TrimSpace(s.Address),
		City:     strings.TrimSpace(s.City),
		State:    strings.TrimSpace(s.State),
		Pincode:  strings.TrimSpace(s.Pincode),
	}
}

// ValidateShipping checks the checkout form. It returns a *ValidationError
// listing every rejected field, or nil.
func ValidateShipping(info ShippingInfo) error {
	err := validate.Struct(info.Normalize())
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate shipping info: %w", err)
	}

	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " is invalid"
	case "number", "len":
		return fmt.Sprintf("%s must be %d digits", label, fieldDigits[fe.Field()])
	default:
		return fmt.Sprintf("%s failed on rule: %s", label, fe.Tag())
	}
}
