package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	schemaKey       = "_schema"
	msgInvalidInput = "Invalid input type."
	msgMissingField = "Missing data for required field."

	msgMissingRelated = "Related object does not exist."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so errors line up with the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// StructSchema decodes JSON into T and checks its `validate` struct tags.
type StructSchema[T Model] struct {
	newFn func() T
}

func NewStructSchema[T Model](newFn func() T) *StructSchema[T] {
	return &StructSchema[T]{newFn: newFn}
}

func (s *StructSchema[T]) New() T {
	return s.newFn()
}

func (s *StructSchema[T]) Load(payload json.RawMessage, into T) FieldErrors {
	errs := FieldErrors{}
	if firstByte(payload) != '{' {
		errs.Add(schemaKey, msgInvalidInput)
		return errs
	}
	if err := json.Unmarshal(payload, into); err != nil {
		addDecodeError(errs, err)
		return errs
	}
	if err := validate.Struct(into); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add(schemaKey, err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), messageFor(fe))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *StructSchema[T]) LoadMany(payload json.RawMessage) ([]T, FieldErrors) {
	errs := FieldErrors{}
	if firstByte(payload) != '[' {
		errs.Add(schemaKey, msgInvalidInput)
		return nil, errs
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		errs.Add(schemaKey, msgInvalidInput)
		return nil, errs
	}

	items := make([]T, 0, len(raws))
	for i, raw := range raws {
		item := s.newFn()
		if itemErrs := s.Load(raw, item); len(itemErrs) > 0 {
			errs.Merge(fmt.Sprint(i), itemErrs)
			continue
		}
		items = append(items, item)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

func addDecodeError(errs FieldErrors, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, typeMessage(typeErr.Type))
		return
	}
	errs.Add(schemaKey, msgInvalidInput)
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Not a valid integer."
	case reflect.Float32, reflect.Float64:
		return "Not a valid number."
	case reflect.Bool:
		return "Not a valid boolean."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice, reflect.Array:
		return "Not a valid list."
	default:
		return msgInvalidInput
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgMissingField
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "hexcolor":
		return "Not a valid color."
	case "alphanumunicode", "alphanum":
		return "Must contain only letters and digits."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed %q validation.", fe.Tag())
	}
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
