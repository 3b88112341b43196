package validation

import (
	"errors"
	"fmt"
	"idea-inbox/internal/common/enum"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var (
	val  *validator.Validate
	once sync.Once
)

var validationMessages = map[string]string{
	"required":   "is required",
	"url":        "must be a valid URL",
	"oneof":      "must be one of the allowed values: %s",
	"min":        "must be greater than or equal to %s",
	"max":        "must be less than or equal to %s",
	"gt":         "must be greater than %s",
	"gte":        "must be greater than or equal to %s",
	"lte":        "must be less than or equal to %s",
	"hostname":   "must be a valid hostname",
	"dir":        "must be an existing directory",
	"startswith": "must start with %s",
	"enum":       "must be one of the allowed enum values: %s",
}

// Setup builds the shared validator and registers the custom tags on it
// and on gin's binding engine. It is safe to call more than once.
func Setup() error {
	var err error
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err = RegisterValidations(v); err != nil {
			err = fmt.Errorf("failed to register custom validations: %w", err)
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err = RegisterValidations(engine); err != nil {
				err = fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
				return
			}
		}
		val = v
	})
	return err
}

func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	return nil
}

// Validate checks payload against its `validate` tags.
func Validate(payload interface{}) error {
	if val == nil {
		if err := Setup(); err != nil {
			return err
		}
	}
	if val == nil {
		return errors.New("validator is not initialized")
	}

	if err := val.Struct(payload); err != nil {
		return errors.New("Validation failed: " + parsingErrorValidate(err))
	}
	return nil
}

func parsingErrorValidate(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg, ok := validationMessages[e.Tag()]
		if !ok {
			msg = "failed on the '" + e.Tag() + "' rule"
		}
		switch {
		case e.Tag() == "enum":
			msg = fmt.Sprintf(msg, e.Type())
		case strings.Contains(msg, "%s"):
			msg = fmt.Sprintf(msg, e.Param())
		}
		messages = append(messages, fmt.Sprintf("%s %s", e.Namespace(), msg))
	}
	return strings.Join(messages, ", ")
}
