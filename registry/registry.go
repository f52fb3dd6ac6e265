// Package registry turns ir type descriptions into Swagger 2.0 definitions
// and operation parameters.
//
// A Registry owns a name-keyed graph of definitions. Named object types are
// always emitted as references into that graph; primitives, enums, and
// anonymous collections are inlined. Types that refer to themselves
// terminate because every definition is reserved before its body is built.
//
// A Registry is not safe for concurrent use.
package registry

import (
	"log/slog"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/naming"
	"github.com/broady/swaggen/schema"
)

// ObjectID is the identity of the open "Object" definition that stands in
// for types with no useful shape (any, struct{}, untyped collections).
var ObjectID = ir.GoIdentifier{Name: "Object"}

// Options configures a Registry.
type Options struct {
	// SchemaID computes a definition name from a type identity.
	// Default: naming.ShortID.
	SchemaID naming.SchemaIDFunc

	// NameTransform is applied to every segment of a flattened query
	// parameter name. Default: naming.CamelCase.
	NameTransform func(string) string

	// EnumNames emits every enum as its member names, as if each enum
	// type marshaled itself as text.
	EnumNames bool

	// CamelCaseEnums camel-cases member names in name-encoded enums.
	CamelCaseEnums bool

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger
}

// Registry builds and de-duplicates definitions.
type Registry struct {
	catalog *ir.Catalog
	opts    Options
	logger  *slog.Logger

	entries     map[ir.GoIdentifier]*entry
	names       map[string]ir.GoIdentifier
	definitions map[string]schema.Schema

	// pending holds reserved entries awaiting a body, in reservation order.
	pending []ir.GoIdentifier

	// reserved records every entry created by the current GetOrRegister
	// call so a failure can undo them.
	reserved []ir.GoIdentifier
}

type entry struct {
	name string

	// desc is the named descriptor to materialize. Nil for ObjectID.
	desc ir.TypeDescriptor

	body schema.Schema
}

// New creates a Registry resolving references against catalog.
func New(catalog *ir.Catalog, opts Options) *Registry {
	if catalog == nil {
		catalog = &ir.Catalog{}
	}
	if opts.SchemaID == nil {
		opts.SchemaID = naming.ShortID
	}
	if opts.NameTransform == nil {
		opts.NameTransform = naming.CamelCase
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		catalog:     catalog,
		opts:        opts,
		logger:      logger,
		entries:     make(map[ir.GoIdentifier]*entry),
		names:       make(map[string]ir.GoIdentifier),
		definitions: make(map[string]schema.Schema),
	}
}

// Catalog returns the catalog references are resolved against.
func (r *Registry) Catalog() *ir.Catalog { return r.catalog }

// GetOrRegister returns the schema to use wherever td appears: a reference
// for named object types (registering them and everything they reach) or an
// inline schema otherwise.
//
// On error the registry is left exactly as it was before the call.
func (r *Registry) GetOrRegister(td ir.TypeDescriptor) (schema.Schema, error) {
	r.reserved = r.reserved[:0]

	s, err := r.inline(td, "")
	if err == nil {
		err = r.drain()
	}
	if err != nil {
		r.rollback()
		return nil, err
	}
	r.reserved = r.reserved[:0]
	return s, nil
}

// Definitions returns a copy of the materialized definitions keyed by name.
func (r *Registry) Definitions() map[string]schema.Schema {
	defs := make(map[string]schema.Schema, len(r.definitions))
	for name, s := range r.definitions {
		defs[name] = s
	}
	return defs
}

// Definition returns the named definition.
func (r *Registry) Definition(name string) (schema.Schema, bool) {
	s, ok := r.definitions[name]
	return s, ok
}

// Len returns the number of materialized definitions.
func (r *Registry) Len() int { return len(r.definitions) }

// reference returns a ref to id, reserving an entry on first sight.
func (r *Registry) reference(id ir.GoIdentifier, desc ir.TypeDescriptor) (*schema.Ref, error) {
	if e, ok := r.entries[id]; ok {
		return &schema.Ref{Name: e.name}, nil
	}

	name := r.opts.SchemaID(id)
	if other, ok := r.names[name]; ok {
		return nil, Errorf(CodeSchemaIDConflict,
			"types %s and %s both map to definition %q; use full schema ids to tell them apart",
			id, other, name).
			WithDetail("definition", name).
			WithDetail("types", []string{id.String(), other.String()})
	}

	r.entries[id] = &entry{name: name, desc: desc}
	r.names[name] = id
	r.pending = append(r.pending, id)
	r.reserved = append(r.reserved, id)
	r.logger.Debug("reserved definition", "name", name, "type", id.String())
	return &schema.Ref{Name: name}, nil
}

// drain materializes reserved entries until none are pending. Building a
// body may reserve further entries; they join the end of the queue.
func (r *Registry) drain() error {
	for len(r.pending) > 0 {
		id := r.pending[0]
		r.pending = r.pending[1:]

		e := r.entries[id]
		body, err := r.materialize(id, e.desc)
		if err != nil {
			return err
		}
		e.body = body
		r.definitions[e.name] = body
		r.logger.Debug("registered definition", "name", e.name, "kind", body.Kind().String())
	}
	return nil
}

func (r *Registry) rollback() {
	for _, id := range r.reserved {
		if e, ok := r.entries[id]; ok {
			delete(r.definitions, e.name)
			delete(r.names, e.name)
			delete(r.entries, id)
		}
	}
	r.reserved = r.reserved[:0]
	r.pending = nil
}

// materialize builds the body of a reserved definition.
func (r *Registry) materialize(id ir.GoIdentifier, desc ir.TypeDescriptor) (schema.Schema, error) {
	switch d := desc.(type) {
	case nil:
		return &schema.Object{}, nil
	case *ir.StructDescriptor:
		return r.object(d)
	case *ir.AliasDescriptor:
		switch u := ir.Deref(d.Underlying).(type) {
		case *ir.ArrayDescriptor:
			items, err := r.inline(u.Element, "")
			if err != nil {
				return nil, err
			}
			return &schema.Array{Items: items}, nil
		case *ir.MapDescriptor:
			values, err := r.inline(u.Value, "")
			if err != nil {
				return nil, err
			}
			return &schema.Dictionary{Values: values}, nil
		}
	}
	return nil, Errorf(CodeUnsupportedType,
		"%s cannot be a definition: must be an object, array, or dictionary", id)
}

func (r *Registry) object(d *ir.StructDescriptor) (*schema.Object, error) {
	obj := &schema.Object{
		Meta:       schema.Meta{Description: d.Documentation.Summary},
		Properties: []schema.Property{},
	}
	for _, f := range d.Fields {
		if f.Skip || f.Obsolete() {
			continue
		}
		name := f.JSONName
		if name == "" {
			name = f.Name
		}
		s, err := r.inline(f.Type, f.Description())
		if err != nil {
			return nil, err
		}
		if f.ReadOnly {
			setReadOnly(s)
		}
		obj.Properties = append(obj.Properties, schema.Property{Name: name, Schema: s})
		if f.Required {
			obj.Required = append(obj.Required, name)
		}
	}
	return obj, nil
}
