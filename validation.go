package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"lg/fitpal-go-api/plan"
)

// registerValidators adds the "sex" rule to gin's validator and makes error messages use
// JSON field names. Safe to call more than once (later registrations overwrite).
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("sex", func(fl validator.FieldLevel) bool {
		_, err := plan.ParseSex(fl.Field().String())
		return err == nil
	})
}

// bindingErrorMessage turns a ShouldBindJSON error into a short client-facing message.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "sex":
			return "sex must be 'M' or 'F'"
		case "gt":
			return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "lte":
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		}
		return fe.Field() + " is invalid"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field + " has the wrong type"
	}
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return "invalid target_date, expected YYYY-MM-DD"
	}
	return "invalid request body"
}
