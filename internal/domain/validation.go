package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return lowerFirst(f.Name)
	})
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(validateProject, Project{})
	v.RegisterStructValidation(validateCareer, Career{})
	return v
}

func validateProject(sl validator.StructLevel) {
	p := sl.Current().Interface().(Project)
	if len(p.Services) == 0 && p.CustomService == "" {
		sl.ReportError(p.Services, "services", "Services", "services_or_custom", "")
	}
}

func validateCareer(sl validator.StructLevel) {
	c := sl.Current().Interface().(Career)
	if c.Resume == nil {
		return
	}
	if (c.Resume.Local == nil) == (c.Resume.Remote == nil) {
		sl.ReportError(c.Resume, "resume", "Resume", "single_variant", "")
	}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.NewValidationError("Please fill in all required fields", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "basic_email":
		return "Please provide a valid email"
	case "services_or_custom":
		return "Please select at least one service or specify a custom service"
	case "single_variant":
		return "resume must reference either a local file or a remote object"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
