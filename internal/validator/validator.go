package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const (
	ErrRequired       = "is required"
	ErrRequiredUnless = "is required when %s is not given"
	ErrInvalidEmail   = "must be a valid email address"
	ErrMinItems       = "must contain at least %s items"
	ErrMaxItems       = "must contain at most %s items"
	ErrMinValue       = "must be at least %s"
	ErrMaxValue       = "must be at most %s"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrOneOf          = "must be one of: %s"
	ErrUnique         = "must not contain duplicate values"
	ErrSeatCoord      = "must be a seat in <row>-<number> form, e.g. 3-12"
	ErrLogin          = "must be 3 to 32 characters of letters, digits or underscores"
	ErrPassword       = "must be 8 to 72 characters long and include at least one uppercase letter, one lowercase letter and one number"
	ErrDefaultInvalid = "is invalid"
)

var loginRgx = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON names
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validator.RegisterValidation("seat_coord", validateSeatCoordinate)
	validator.RegisterValidation("login", validateLogin)
	validator.RegisterValidation("password", validatePassword)

	return validator
}

func validateSeatCoordinate(fl validator.FieldLevel) bool {
	_, err := domain.ParseSeatCoordinate(fl.Field().String())
	return err == nil
}

func validateLogin(fl validator.FieldLevel) bool {
	return loginRgx.MatchString(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	// bcrypt ignores everything past 72 bytes
	if len(password) < 8 || len(password) > 72 {
		return false
	}

	containsUpper, containsLower, containsDigit := false, false, false

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			containsUpper = true
		case unicode.IsLower(ch):
			containsLower = true
		case unicode.IsDigit(ch):
			containsDigit = true
		}
	}

	return containsUpper && containsLower && containsDigit
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "required_without":
		return fmt.Sprintf(ErrRequiredUnless, strings.ToLower(err.Param()))
	case "email":
		return ErrInvalidEmail
	case "min":
		return boundMessage(err, ErrMinItems, ErrMinLength, ErrMinValue)
	case "max":
		return boundMessage(err, ErrMaxItems, ErrMaxLength, ErrMaxValue)
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	case "unique":
		return ErrUnique
	case "seat_coord":
		return ErrSeatCoord
	case "login":
		return ErrLogin
	case "password":
		return ErrPassword
	default:
		return ErrDefaultInvalid
	}
}

func boundMessage(err validator.FieldError, items, length, value string) string {
	switch err.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf(items, err.Param())
	case reflect.String:
		return fmt.Sprintf(length, err.Param())
	default:
		return fmt.Sprintf(value, err.Param())
	}
}
