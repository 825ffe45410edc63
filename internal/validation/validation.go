// Package validation turns go-playground/validator failures into field
// scoped model.ValidationError messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// Messages maps "field.tag" to the message reported for that failure.
// Fields are named by their json tag.
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and collects one message per failing field. The result
// is never nil; callers may add their own checks and then call OrNil.
func Struct(s any, msgs Messages) *model.ValidationError {
	verr := model.NewValidationError()

	err := validate.Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("_", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if msg, ok := msgs[field+"."+fe.Tag()]; ok {
			verr.Add(field, msg)
			continue
		}
		verr.Add(field, field+" is invalid")
	}
	return verr
}
