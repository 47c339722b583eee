package handlers

import (
	"errors"
	"reflect"
	"strings"

	"dispatchboard/internal/grid"
	"dispatchboard/internal/shift"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	clockTag    = "clock"
	dateTag     = "date"
	weekdayTag  = "weekday"
)

type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Report JSON field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		_, ok := grid.ParseTime(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(dateTag, func(fl validator.FieldLevel) bool {
		_, err := shift.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		_, err := shift.ParseWeekday(fl.Field().String())
		return err == nil
	})

	messages := map[string]string{
		notBlankTag: "{0} cannot be blank",
		clockTag:    "{0} must be a time of day as HH:MM",
		dateTag:     "{0} must be a date as YYYY-MM-DD",
		weekdayTag:  "{0} must be a weekday name",
	}
	for tag, msg := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error { return ut.Add(tag, msg, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(fe.Tag(), fe.Field())
				return t
			},
		)
	}

	return &requestValidator{validate: v, translator: trans}
}

// Struct validates req and returns a readable message for the failures.
func (rv *requestValidator) Struct(req any) (string, bool) {
	return rv.describe(rv.validate.Struct(req))
}

// Var validates a single value against tag.
func (rv *requestValidator) Var(value any, tag string) (string, bool) {
	return rv.describe(rv.validate.Var(value, tag))
}

func (rv *requestValidator) describe(err error) (string, bool) {
	if err == nil {
		return "", true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), false
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(rv.translator))
	}
	return strings.Join(msgs, "; "), false
}
