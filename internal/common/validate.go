package common

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeAndValidate decodes a JSON request body into v and runs the
// struct validation tags.
func DecodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// ValidateStruct runs the validation tags on v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ValidationDetails flattens validator errors into a field to message
// map suitable for the error envelope. Returns nil for other errors.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short, minimum " + fe.Param()
	case "max":
		return "value is too long, maximum " + fe.Param()
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	default:
		return "failed validation rule " + fe.Tag()
	}
}
