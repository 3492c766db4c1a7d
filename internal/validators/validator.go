// Package validators owns the request validation and sanitizing rules.
package validators

import (
	"errors"
	"reflect"
	"regexp"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

// Validator bundles the struct validator, the HTML sanitizer and the email
// verifier behind one handle.
type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool

	policy *bluemonday.Policy
}

var (
	instance      *Validator
	once          sync.Once
	configuration *truemail.Configuration
)

// GetValidator returns the process-wide validator instance.
func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@mail.bookstore.example",
			ValidationTypeDefault: "regex",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: verifyEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// SanitizeData strips markup from every exported string field of the given
// struct pointer.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return errors.New("sanitize target must be a struct pointer")
	}

	elem := value.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(v.policy.Sanitize(field.String()))
		}
	}

	return nil
}

func verifyEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	if err := v.RegisterValidation("username_validation", usernameValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("password_validation", passwordValidation); err != nil {
		return
	}
}

// usernameValidation allows a-z, A-Z, 0-9, ., -, and _.
func usernameValidation(fl validator.FieldLevel) bool {
	pattern := `^[a-zA-Z0-9.\-_]+$`
	match, err := regexp.MatchString(pattern, fl.Field().String())
	if err != nil {
		return false
	}

	return match
}

// passwordValidation requires an upper and lower case letter, a number and a
// special character, all ASCII.
func passwordValidation(fl validator.FieldLevel) bool {
	var upperLetter, lowerLetter, number, specialChar bool

	for _, r := range fl.Field().String() {
		if r > unicode.MaxASCII {
			return false
		}

		switch {
		case unicode.IsUpper(r):
			upperLetter = true
		case unicode.IsLower(r):
			lowerLetter = true
		case unicode.IsNumber(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			specialChar = true
		}
	}

	return upperLetter && lowerLetter && number && specialChar
}
