package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				for _, tag := range []string{"json", "form"} {
					name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
					if name == "-" {
						return ""
					}
					if name != "" {
						return name
					}
				}
				return fld.Name
			})
			v.RegisterAlias("pwd", "min=8,max=72") // bcrypt ignores bytes past 72
			_ = v.RegisterValidation("notblank", validators.NotBlank)
			// names are stored trimmed, so whitespace alone is not a name
			v.RegisterAlias("personname", "notblank,max=100")
			v.RegisterAlias("body", "min=1,max=5000")
		}
	})
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be a " + ute.Type.String()}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of [" + param + "]"
	case "min", "gte":
		if isString {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max", "lte":
		if isString {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "pwd":
		return "must be between 8 and 72 characters"
	case "notblank":
		return "must not be blank"
	case "personname":
		return "must be between 1 and 100 characters and not blank"
	case "body":
		return "must be between 1 and 5000 characters"
	}
	return "failed on " + fe.Tag()
}
