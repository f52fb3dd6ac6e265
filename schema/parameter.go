package schema

import "sort"

// Location is where a parameter travels ("in").
type Location string

const (
	InQuery  Location = "query"
	InPath   Location = "path"
	InHeader Location = "header"
	InBody   Location = "body"
)

// CollectionMulti encodes an array as repeated query keys.
const CollectionMulti = "multi"

// Parameter is one operation input.
//
// Body parameters carry Schema. Every other location carries the scalar
// facets (Type, Format, Items, Enum) of the resolved schema instead, since
// Swagger 2.0 forbids "$ref" outside the body.
type Parameter struct {
	Name        string
	In          Location
	Description string
	Required    bool
	Default     any

	// Schema is set for body parameters only.
	Schema Schema

	Type             string
	Format           string
	Items            Schema
	CollectionFormat string
	Enum             []any

	// Binding is the definition a non-body parameter was resolved from when
	// that definition is an object. An empty Type together with a Binding
	// marks a composite parameter that query flattening expands.
	Binding *Ref
}

// Populate copies the scalar facets of s onto p.
func (p *Parameter) Populate(s Schema) {
	p.Type, p.Format, p.Items, p.Enum = Facets(s)
}

// Document is the generated output: definitions plus the parameters of
// every described operation.
type Document struct {
	Definitions map[string]Schema
	Operations  []Operation
}

// DefinitionNames returns the definition names in sorted order.
func (d *Document) DefinitionNames() []string {
	names := make([]string, 0, len(d.Definitions))
	for name := range d.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operation groups the parameters generated for one API operation.
type Operation struct {
	ID         string
	Method     string
	Path       string
	Summary    string
	Parameters []Parameter
}
