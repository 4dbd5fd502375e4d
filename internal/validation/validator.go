// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/linkstashapp/linkstash-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
// The first failing field decides the error code so clients get a
// specific, stable code rather than a generic validation failure.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	first := validationErrs[0]
	code := fieldCode(first.Field(), first.Tag())
	msg := fmt.Sprintf("%s %s", first.Field(), friendlyMessage(first))

	return domainerrors.Validation(code, msg)
}

// fieldCode maps a failing field and validation tag to a domain error code.
func fieldCode(field, tag string) domainerrors.Code {
	missing := tag == "required"

	switch field {
	case "email":
		if missing {
			return domainerrors.CodeMissingEmail
		}
		return domainerrors.CodeInvalidEmail
	case "password":
		if missing {
			return domainerrors.CodeMissingPassword
		}
		return domainerrors.CodeInvalidPassword
	case "url":
		if missing {
			return domainerrors.CodeMissingURL
		}
		return domainerrors.CodeInvalidURL
	case "thumbnail":
		return domainerrors.CodeInvalidThumbnail
	case "name":
		if missing {
			return domainerrors.CodeMissingName
		}
		return domainerrors.CodeInvalidName
	case "bookmark_id", "bookmarkId":
		return domainerrors.CodeMissingBookmarkID
	case "label_id", "labelId":
		return domainerrors.CodeMissingLabelID
	case "list_id", "listId":
		return domainerrors.CodeMissingListID
	default:
		if missing {
			return domainerrors.CodeMissingParameters
		}
		return domainerrors.CodeValidation
	}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
