package leads

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// tagMessages are the client-facing messages per failed rule.
var tagMessages = map[string]string{
	"required": "Required",
	"email":    "Invalid email",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every rule independently and reports all failing fields.
// It returns nil when the submission is acceptable.
func (s Submission) Validate() FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "Invalid"
		}
		fields[fe.Field()] = msg
	}
	return fields
}
