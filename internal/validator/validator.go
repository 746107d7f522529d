package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks shell input forms and reports failures as translated
// per-field messages.
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// New creates a Validator with English translations. Field names in
// messages come from the struct's form tag.
func New() *Validator {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Struct validates dst and returns a field name → message map, or nil when
// dst is valid.
func (v *Validator) Struct(dst interface{}) map[string]string {
	if err := v.validate.Struct(dst); err != nil {
		return v.TranslateErrors(err)
	}
	return nil
}

// TranslateErrors takes a validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func (v *Validator) TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(v.trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}
