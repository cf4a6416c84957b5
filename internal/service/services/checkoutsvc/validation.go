package checkoutsvc

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Customer holds the delivery details entered at checkout.
type Customer struct {
	Name     string `json:"customer_name"     validate:"required"`
	Contact  string `json:"customer_contact"  validate:"required"`
	Location string `json:"customer_location" validate:"required"`
}

func (c Customer) normalized() Customer {
	return Customer{
		Name:     strings.TrimSpace(c.Name),
		Contact:  strings.TrimSpace(c.Contact),
		Location: strings.TrimSpace(c.Location),
	}
}

// ValidationError names the checkout fields that are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func validateCheckout(c Customer, cartEmpty bool) error {
	var fields []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	if cartEmpty {
		fields = append(fields, "items")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}
