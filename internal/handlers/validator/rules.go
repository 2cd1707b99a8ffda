package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var supportedLanguages = map[string]bool{
	"en": true,
}

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewArticleValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("topic", topicValidator),
		},
		{
			Rule: registerFn("language", languageValidator),
		},
	}
}

func topicValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

func languageValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return supportedLanguages[val]
}
