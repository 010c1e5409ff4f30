package booking

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// passengerForm is the passenger step as submitted, trimmed.
type passengerForm struct {
	Name  string `form:"name" validate:"required"`
	Age   string `form:"age" validate:"required,age"`
	Email string `form:"email" validate:"required,contact_email"`
	Phone string `form:"phone" validate:"required,len=10,number"`
	Terms bool   `form:"terms" validate:"required"`
}

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

	formValidator = newFormValidator()
)

var requiredMessages = map[string]string{
	"name":  "Name is required",
	"age":   "Age is required",
	"email": "Email is required",
	"phone": "Phone number is required",
	"terms": "You must accept the terms and conditions",
}

var invalidMessages = map[string]string{
	"age":   "Enter a valid age",
	"email": "Enter a valid email",
	"phone": "Enter a valid 10-digit phone number",
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	_ = v.RegisterValidation("age", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1 && n <= 120
	})
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})

	return v
}

// ValidatePassenger checks the passenger form before it is committed to a
// session. It returns a ValidationError listing every failing field.
func ValidatePassenger(p domain.Passenger, termsAccepted bool) error {
	form := passengerForm{
		Name:  strings.TrimSpace(p.Name),
		Age:   strings.TrimSpace(p.Age),
		Email: strings.TrimSpace(p.Email),
		Phone: strings.TrimSpace(p.Phone),
		Terms: termsAccepted,
	}

	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			fields[fe.Field()] = requiredMessages[fe.Field()]
			continue
		}
		fields[fe.Field()] = invalidMessages[fe.Field()]
	}

	return ValidationError{Fields: fields}
}
