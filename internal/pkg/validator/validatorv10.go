package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/shandysiswandi/gootp/internal/pkg/strcase"
)

// reEmailShape accepts local@domain.tld with no whitespace and a single @.
var reEmailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates a struct using its `validate` tags.
type Validator interface {
	Validate(data any) error
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is returned when validation fails.
//
// Keys are field names in snake_case to match typical JSON conventions.
// For every field the first failing rule is reported.
type V10ValidationError struct {
	fields map[string]string
	tags   map[string]string
	order  []string
}

// Error implements the error interface.
func (vs *V10ValidationError) Error() string {
	if len(vs.fields) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs.fields)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field to translated message map.
func (vs *V10ValidationError) Values() map[string]string {
	return vs.fields
}

// Tag returns the rule that failed for field, or "" when the field passed.
func (vs *V10ValidationError) Tag(field string) string {
	return vs.tags[field]
}

// Fields returns failing field names in struct declaration order.
func (vs *V10ValidationError) Fields() []string {
	return vs.order
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a *V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	out := &V10ValidationError{
		fields: make(map[string]string, len(validateErrs)),
		tags:   make(map[string]string, len(validateErrs)),
	}
	for _, fe := range validateErrs {
		key := strcase.ToLowerSnake(fe.Field())
		if _, seen := out.fields[key]; seen {
			continue
		}
		out.fields[key] = fe.Translate(v.translator)
		out.tags[key] = fe.Tag()
		out.order = append(out.order, key)
	}

	return out
}

func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	if err := validate.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && reEmailShape.MatchString(s)
	}); err != nil {
		return err
	}

	if err := validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(s) <= limit
	}); err != nil {
		return err
	}

	translate := func(ut ut.Translator, fe validator.FieldError) string {
		t, err := ut.T(fe.Tag(), fe.Field(), fe.Param())
		if err != nil {
			slog.Warn("warning: error translating", "tag", fe.Tag(), "field", fe.Field(), "error", err)
			return fe.Error()
		}
		return t
	}

	if err := validate.RegisterTranslation("emailshape", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("emailshape", "{0} must be a valid email address", false)
		},
		translate,
	); err != nil {
		return err
	}

	return validate.RegisterTranslation("maxbytes", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("maxbytes", "{0} must be at most {1} bytes long", false)
		},
		translate,
	)
}
