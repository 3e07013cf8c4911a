package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

// ErrInvalidEntity matches every *EntityError.
var ErrInvalidEntity = errors.New("invalid entity")

// EntityError lists the fields of an entity that failed validation, keyed by
// JSON path (e.g. "log.entries[0].request.url").
type EntityError struct {
	Entity   string
	Problems map[string]string
}

func (e *EntityError) Error() string {
	paths := make([]string, 0, len(e.Problems))
	for p := range e.Problems {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	msgs := make([]string, 0, len(paths))
	for _, p := range paths {
		msgs = append(msgs, e.Problems[p])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
}

func (e *EntityError) Is(target error) bool {
	return target == ErrInvalidEntity
}

var messages = map[string]string{
	"required": "The field '%s' is required.",
	"http_url": "The field '%s' must be an http or https URL.",
	"ip":       "The field '%s' must be an IP address.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Scalar wrappers validate as their zero-able primitive so "required"
	// means "not the zero value".
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		id := f.Interface().(fields.ID)
		if id.IsZero() {
			return ""
		}
		return id.String()
	}, fields.ID{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(fields.Timestamp).Micros()
	}, fields.Timestamp{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(fields.MimeType).String()
	}, fields.MimeType{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(fields.EncodedImage).String()
	}, fields.EncodedImage{})
	return v
}

// Validate checks the struct tags of an entity (or any struct pointer).
// Failures are returned as *EntityError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &EntityError{
		Entity:   entityName(v),
		Problems: make(map[string]string, len(verrs)),
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		out.Problems[path] = message(path, fe)
	}
	return out
}

func message(path string, fe validator.FieldError) string {
	msg, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", path, fe.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, path, fe.Param())
	}
	return fmt.Sprintf(msg, path)
}

func entityName(v any) string {
	if e, ok := v.(Entity); ok {
		return string(e.EntityKind())
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "value"
	}
	return strings.ToLower(t.Name())
}
