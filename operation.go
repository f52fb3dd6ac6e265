package swaggen

import (
	"reflect"

	"github.com/broady/swaggen/schema"
)

// Operation describes one API operation whose inputs are Go types.
type Operation struct {
	// ID is the Swagger operationId.
	ID string

	// Method is the HTTP method, e.g. "GET".
	Method string

	// Path is the URL template, e.g. "/pets/{id}".
	Path string

	Summary string

	Params []Param
}

// Param is one operation input.
type Param struct {
	// Name may be empty for a query object whose fields flatten to
	// top-level query parameters.
	Name string

	In schema.Location

	Description string

	// Type is the Go type of the input. A nil Type declares a plain
	// required string.
	Type reflect.Type

	// Optional marks a non-path input as not required.
	Optional bool

	// Default is the value used when the input is omitted.
	Default any
}

// Body declares a request body of the type of v.
func Body(name string, v any) Param {
	return Param{Name: name, In: schema.InBody, Type: reflect.TypeOf(v)}
}

// Query declares a query input of the type of v. Struct types flatten to
// one query parameter per field; pass an empty name to leave the
// flattened names unqualified.
func Query(name string, v any) Param {
	return Param{Name: name, In: schema.InQuery, Type: reflect.TypeOf(v)}
}

// Path declares a path input of the type of v.
func Path(name string, v any) Param {
	return Param{Name: name, In: schema.InPath, Type: reflect.TypeOf(v)}
}

// Header declares a header input of the type of v.
func Header(name string, v any) Param {
	return Param{Name: name, In: schema.InHeader, Type: reflect.TypeOf(v)}
}

// AsOptional returns a copy of p that is not required.
func (p Param) AsOptional() Param {
	p.Optional = true
	return p
}

// WithDefault returns a copy of p with a default value.
func (p Param) WithDefault(v any) Param {
	p.Default = v
	return p
}

// WithDescription returns a copy of p with a description.
func (p Param) WithDescription(s string) Param {
	p.Description = s
	return p
}
