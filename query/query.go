// Package query decodes flattened query strings back into Go values.
//
// Parameters produced by the registry's query flattening are named by
// dotted path ("address.zip") and encode arrays as repeated keys. A Binder
// reverses that: it fills a struct from url.Values and enforces the same
// `validate` rules the schema was generated from.
package query

import (
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/swaggen/naming"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeInvalidArgument means a value could not be converted or failed
	// validation.
	CodeInvalidArgument ErrorCode = "invalid_argument"

	// CodeInvalidTarget means the destination is not a pointer to a struct.
	CodeInvalidTarget ErrorCode = "invalid_target"
)

// Error reports a failed Bind. Details maps each offending query key to a
// message.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Binder decodes flattened query parameters.
// A Binder is safe for concurrent use after construction.
type Binder struct {
	// Prefix is the name of the parameter the values were flattened from.
	// Only keys starting with Prefix + "." are decoded. Empty for an
	// unnamed parameter.
	Prefix string

	decoder  *schema.Decoder
	validate *validator.Validate
}

// NewBinder creates a Binder for parameters flattened under prefix.
func NewBinder(prefix string) *Binder {
	decoder := schema.NewDecoder()
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)

	validate := validator.New()
	validate.RegisterTagNameFunc(jsonName)

	return &Binder{
		Prefix:   prefix,
		decoder:  decoder,
		validate: validate,
	}
}

// jsonName names fields in validation errors by their json tag.
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Bind decodes values into dst, which must be a pointer to a struct, then
// validates it. Keys match case-insensitively, so camel-cased flattened
// names bind to fields regardless of the case of their json names.
func (b *Binder) Bind(dst any, values url.Values) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &Error{Code: CodeInvalidTarget, Message: fmt.Sprintf("destination must be a non-nil pointer to a struct, got %T", dst)}
	}

	src := b.strip(values)
	if err := b.decoder.Decode(dst, src); err != nil {
		return b.decodeError(err)
	}
	var err error
	if absent := absentStructs(rv.Elem().Type(), presentPaths(src)); len(absent) > 0 {
		err = b.validate.StructExcept(dst, absent...)
	} else {
		err = b.validate.Struct(dst)
	}
	if err != nil {
		return b.validationError(err)
	}
	return nil
}

var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// presentPaths returns every lowercased dotted prefix of the keys in values.
func presentPaths(values url.Values) map[string]bool {
	present := make(map[string]bool, len(values))
	for key := range values {
		key = strings.ToLower(key)
		for i := range key {
			if key[i] == '.' {
				present[key[:i]] = true
			}
		}
		present[key] = true
	}
	return present
}

// absentStructs lists, by Go field path, the optional struct-valued fields
// of t with no query key under them. Their rules apply only once the
// caller sends part of the struct, matching pointer fields that stay nil.
func absentStructs(t reflect.Type, present map[string]bool) []string {
	var out []string
	var walk func(t reflect.Type, goPath, keyPath string)
	walk = func(t reflect.Type, goPath, keyPath string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonName(f)
			if !f.IsExported() || f.Anonymous || name == "" {
				continue
			}
			ft, ptr := f.Type, false
			if ft.Kind() == reflect.Ptr {
				ft, ptr = ft.Elem(), true
			}
			if ft.Kind() != reflect.Struct || reflect.PointerTo(ft).Implements(textUnmarshaler) {
				continue
			}
			key := keyPath + strings.ToLower(name)
			if !present[key] {
				if !ptr && !hasRule(f, "required") {
					out = append(out, goPath+f.Name)
				}
				continue
			}
			walk(ft, goPath+f.Name+".", key+".")
		}
	}
	walk(t, "", "")
	return out
}

func hasRule(f reflect.StructField, rule string) bool {
	for _, r := range strings.Split(f.Tag.Get("validate"), ",") {
		if r == rule {
			return true
		}
	}
	return false
}

// strip removes the prefix from matching keys and drops the rest.
func (b *Binder) strip(values url.Values) url.Values {
	if b.Prefix == "" {
		return values
	}
	qualifier := b.Prefix + "."
	out := make(url.Values, len(values))
	for key, vals := range values {
		if rest, ok := strings.CutPrefix(key, qualifier); ok {
			out[rest] = vals
		}
	}
	return out
}

// key turns a decoder or validator path back into a flattened query key.
func (b *Binder) key(path string) string {
	if b.Prefix == "" {
		return path
	}
	return b.Prefix + "." + path
}

func (b *Binder) decodeError(err error) error {
	details := make(map[string]any)
	var multi schema.MultiError
	if errors.As(err, &multi) {
		for path, e := range multi {
			var conv schema.ConversionError
			if errors.As(e, &conv) {
				details[b.key(path)] = fmt.Sprintf("cannot convert to %s", conv.Type)
				continue
			}
			details[b.key(path)] = e.Error()
		}
	}
	if len(details) == 0 {
		return &Error{Code: CodeInvalidArgument, Message: "failed to decode query: " + err.Error()}
	}
	return &Error{Code: CodeInvalidArgument, Message: joinDetails(details), Details: details}
}

func (b *Binder) validationError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return &Error{Code: CodeInvalidArgument, Message: err.Error()}
	}
	details := make(map[string]any, len(valErrs))
	for _, ve := range valErrs {
		// Namespace starts with the Go type name.
		_, path, _ := strings.Cut(ve.Namespace(), ".")
		segments := strings.Split(path, ".")
		for i, seg := range segments {
			segments[i] = naming.CamelCase(seg)
		}
		details[b.key(strings.Join(segments, "."))] = formatValidationError(ve)
	}
	return &Error{Code: CodeInvalidArgument, Message: joinDetails(details), Details: details}
}

func joinDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fmt.Sprintf("%s: %v", k, details[k])
	}
	return strings.Join(msgs, "; ")
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "email":
		return "must be a valid email address"
	}
	if ve.Param() != "" {
		return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
	}
	return fmt.Sprintf("failed %s validation", ve.Tag())
}
