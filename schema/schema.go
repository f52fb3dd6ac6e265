// Package schema is the output model: Swagger 2.0 shaped schemas,
// parameters, and the document that groups them.
package schema

// DefinitionsPrefix is the JSON pointer prefix of every reference.
const DefinitionsPrefix = "#/definitions/"

// Kind identifies a Schema variant.
type Kind int

const (
	KindRef Kind = iota
	KindPrimitive
	KindEnum
	KindArray
	KindDictionary
	KindObject
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Swagger "type" values.
const (
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Swagger "format" values.
const (
	FormatInt32    = "int32"
	FormatInt64    = "int64"
	FormatFloat    = "float"
	FormatDouble   = "double"
	FormatByte     = "byte"
	FormatDateTime = "date-time"
)

// Schema is one node of a definition graph. It is a closed set of variants:
// *Ref, *Primitive, *Enum, *Array, *Dictionary, and *Object.
type Schema interface {
	Kind() Kind

	// Info returns the description and read-only flag shared by all variants.
	Info() Meta

	sealed()
}

// Meta carries the annotations every variant can have.
type Meta struct {
	Description string
	ReadOnly    bool
}

// Info returns m.
func (m Meta) Info() Meta { return m }

// Ref points to a named definition.
type Ref struct {
	Meta
	Name string
}

func (*Ref) Kind() Kind { return KindRef }
func (*Ref) sealed()    {}

// Pointer returns the "$ref" value, e.g. "#/definitions/User".
func (r *Ref) Pointer() string { return DefinitionsPrefix + r.Name }

// Primitive is an inline scalar.
type Primitive struct {
	Meta
	Type   string
	Format string
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Primitive) sealed()    {}

// Enum is an inline scalar restricted to Values, in declaration order.
type Enum struct {
	Meta
	Type   string
	Format string
	Values []any
}

func (*Enum) Kind() Kind { return KindEnum }
func (*Enum) sealed()    {}

// Array is an inline collection.
type Array struct {
	Meta
	Items Schema
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) sealed()    {}

// Dictionary is a string-keyed map ("additionalProperties").
type Dictionary struct {
	Meta
	Values Schema
}

func (*Dictionary) Kind() Kind { return KindDictionary }
func (*Dictionary) sealed()    {}

// Object is a definition body with named properties.
type Object struct {
	Meta

	// Properties in declaration order.
	Properties []Property

	// Required lists required property names. It is nil, never empty,
	// when no property is required.
	Required []string
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) sealed()    {}

// Property is a named member of an Object.
type Property struct {
	Name   string
	Schema Schema
}

// Property returns the schema of the named property, or nil.
func (o *Object) Property(name string) Schema {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// IsRequired reports whether name is in the required set.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Facets returns the scalar "type", "format", "items" and "enum" of a
// schema as a non-body parameter would carry them. Objects and refs have
// no scalar facets and return an empty type.
func Facets(s Schema) (typ, format string, items Schema, enum []any) {
	switch v := s.(type) {
	case *Primitive:
		return v.Type, v.Format, nil, nil
	case *Enum:
		return v.Type, v.Format, nil, v.Values
	case *Array:
		return TypeArray, "", v.Items, nil
	case *Dictionary:
		return TypeObject, "", nil, nil
	}
	return "", "", nil, nil
}
