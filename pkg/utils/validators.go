package utils

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	QuestionTypes = []string{"rating", "text", "multiple_choice"}
	Categories    = []string{"features", "performance", "bugs", "general", "ai_coaching", "community"}
)

func IsValidQuestionType(t string) bool {
	return contains(QuestionTypes, t)
}

func IsValidCategory(c string) bool {
	return contains(Categories, c)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// RegisterValidators adds the question_type and question_category tags to
// gin's binding validator and makes it report json field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return IsValidQuestionType(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("question_category", func(fl validator.FieldLevel) bool {
		return IsValidCategory(fl.Field().String())
	})
}

// BindingErrors turns validator failures into field errors. Anything else,
// such as malformed JSON, becomes a single body error.
func BindingErrors(err error) *ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("Invalid request payload", FieldError{Field: "body", Message: err.Error()})
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: "failed on the '" + fe.Tag() + "' rule"})
	}
	return NewValidationError("Invalid request payload", out...)
}
