// Package validation checks contact drafts before they are sent to the
// collection resource. Validation is pure: it returns errors as data and
// never mutates the draft.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/Daskott/agenda/models"
	"github.com/go-playground/validator"
)

const (
	MAX_NOMBRE_LENGTH = 80
	MAX_CORREO_LENGTH = 120
	MAX_NOTAS_LENGTH  = 500
	MIN_PHONE_DIGITS  = 7
	MAX_PHONE_DIGITS  = 15
)

var (
	nameRegex   = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex  = regexp.MustCompile(`^\+?\d+$`)
	markupRegex = regexp.MustCompile(`<[^>]*>`)
	phoneFiller = regexp.MustCompile(`[\s-]`)

	validate *validator.Validate

	// fieldRules holds the validate tag of each draft field, keyed by json name
	fieldRules = map[string]string{}
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	err := registerValidators(validate)
	if err != nil {
		panic(err)
	}

	draftType := reflect.TypeOf(models.Draft{})
	for i := 0; i < draftType.NumField(); i++ {
		field := draftType.Field(i)
		fieldRules[jsonFieldName(field)] = field.Tag.Get("validate")
	}
}

// Validate runs every field rule against the draft and returns all failures
// together, at most one message per field.
func Validate(draft models.Draft) models.FieldErrors {
	fieldErrors := models.FieldErrors{}

	err := validate.Struct(draft)
	if err == nil {
		return fieldErrors
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Only returned for invalid input to Struct, which a Draft value never is
		panic(err)
	}

	for _, fieldErr := range validationErrs {
		if _, exists := fieldErrors[fieldErr.Field()]; exists {
			continue
		}
		fieldErrors[fieldErr.Field()] = message(fieldErr.Field(), fieldErr.Tag())
	}

	return fieldErrors
}

// ValidateField checks a single field value and returns its error message,
// or "" if the value is valid.
func ValidateField(field, value string) string {
	rules, ok := fieldRules[field]
	if !ok {
		return ""
	}

	err := validate.Var(value, rules)
	if err == nil {
		return ""
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return ""
	}

	return message(field, validationErrs[0].Tag())
}

// ValidateStruct checks any struct carrying `validate` tags e.g. configs
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// PhoneDigits returns the number of digits in phone once spaces and hyphens are removed
func PhoneDigits(phone string) int {
	count := 0
	for _, char := range cleanPhone(phone) {
		if char >= '0' && char <= '9' {
			count++
		}
	}
	return count
}

// ---------------------------------------------------------------------------------//
// Custom validators
// --------------------------------------------------------------------------------//

func registerValidators(validate *validator.Validate) error {
	validators := map[string]func(value string) bool{
		"not_blank": func(value string) bool {
			return strings.TrimSpace(value) != ""
		},
		"name_chars":  nameRegex.MatchString,
		"email_shape": emailRegex.MatchString,
		"phone_digits": func(value string) bool {
			digits := PhoneDigits(value)
			return digits >= MIN_PHONE_DIGITS && digits <= MAX_PHONE_DIGITS
		},
		"phone_chars": func(value string) bool {
			return phoneRegex.MatchString(cleanPhone(value))
		},
		"contact_tag": models.IsValidTag,
		"no_markup": func(value string) bool {
			return !markupRegex.MatchString(value)
		},
	}

	for tag, fn := range validators {
		fn := fn
		err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func cleanPhone(phone string) string {
	return phoneFiller.ReplaceAllString(phone, "")
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
