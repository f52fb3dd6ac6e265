package registry

import (
	"fmt"
	"math"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/naming"
	"github.com/broady/swaggen/schema"
)

// inline builds the schema used wherever td appears. description is
// attached to every result except references.
func (r *Registry) inline(td ir.TypeDescriptor, description string) (schema.Schema, error) {
	s, err := r.build(td)
	if err != nil {
		return nil, err
	}
	if description != "" {
		setDescription(s, description)
	}
	return s, nil
}

func (r *Registry) build(td ir.TypeDescriptor) (schema.Schema, error) {
	switch d := td.(type) {
	case nil:
		return r.reference(ObjectID, nil)
	case *ir.PtrDescriptor:
		return r.build(d.Element)
	case *ir.PrimitiveDescriptor:
		return r.primitive(d)
	case *ir.ArrayDescriptor:
		items, err := r.build(d.Element)
		if err != nil {
			return nil, err
		}
		return &schema.Array{Items: items}, nil
	case *ir.MapDescriptor:
		values, err := r.build(d.Value)
		if err != nil {
			return nil, err
		}
		return &schema.Dictionary{Values: values}, nil
	case *ir.ReferenceDescriptor:
		target := r.catalog.FindType(d.Target)
		if target == nil {
			return nil, Errorf(CodeUnknownType, "reference to %s not found in catalog", d.Target).
				WithDetail("type", d.Target.String())
		}
		return r.named(target)
	case *ir.StructDescriptor, *ir.AliasDescriptor, *ir.EnumDescriptor:
		return r.named(d)
	}
	return nil, Errorf(CodeUnsupportedType, "unsupported descriptor kind %s", td.Kind())
}

func (r *Registry) named(td ir.TypeDescriptor) (schema.Schema, error) {
	switch d := td.(type) {
	case *ir.StructDescriptor:
		return r.reference(d.Name, d)
	case *ir.EnumDescriptor:
		return r.enum(d)
	case *ir.AliasDescriptor:
		if r.aliasLoops(d) {
			return nil, Errorf(CodeUnsupportedType, "%s is defined in terms of itself", d.Name)
		}
		if r.selfReferencing(d) {
			switch ir.Deref(d.Underlying).(type) {
			case *ir.ArrayDescriptor, *ir.MapDescriptor:
				return r.reference(d.Name, d)
			}
		}
		return r.build(d.Underlying)
	}
	return nil, Errorf(CodeUnsupportedType, "unsupported named type %s", td.TypeName())
}

// aliasLoops reports whether following alias's underlying type through
// pointers and other aliases alone never reaches a concrete type.
func (r *Registry) aliasLoops(alias *ir.AliasDescriptor) bool {
	seen := map[ir.GoIdentifier]bool{alias.Name: true}
	td := alias.Underlying
	for {
		target, ok := ir.Deref(td).(*ir.ReferenceDescriptor)
		if !ok {
			return false
		}
		if seen[target.Target] {
			return true
		}
		seen[target.Target] = true
		next, ok := r.catalog.FindType(target.Target).(*ir.AliasDescriptor)
		if !ok {
			return false
		}
		td = next.Underlying
	}
}

// selfReferencing reports whether alias can reach itself through arrays,
// maps, pointers, and other aliases. Structs end the walk: they are
// always references, so a cycle through one is already broken.
func (r *Registry) selfReferencing(alias *ir.AliasDescriptor) bool {
	visited := make(map[ir.GoIdentifier]bool)
	var walk func(td ir.TypeDescriptor) bool
	walk = func(td ir.TypeDescriptor) bool {
		switch d := td.(type) {
		case *ir.PtrDescriptor:
			return walk(d.Element)
		case *ir.ArrayDescriptor:
			return walk(d.Element)
		case *ir.MapDescriptor:
			return walk(d.Value)
		case *ir.ReferenceDescriptor:
			if d.Target == alias.Name {
				return true
			}
			if visited[d.Target] {
				return false
			}
			visited[d.Target] = true
			if next, ok := r.catalog.FindType(d.Target).(*ir.AliasDescriptor); ok {
				return walk(next.Underlying)
			}
		}
		return false
	}
	return walk(alias.Underlying)
}

func (r *Registry) primitive(d *ir.PrimitiveDescriptor) (schema.Schema, error) {
	switch d.PrimitiveKind {
	case ir.PrimitiveBool:
		return &schema.Primitive{Type: schema.TypeBoolean}, nil
	case ir.PrimitiveInt, ir.PrimitiveUint:
		if d.BitSize == 0 || d.BitSize == 64 {
			return &schema.Primitive{Type: schema.TypeInteger, Format: schema.FormatInt64}, nil
		}
		return &schema.Primitive{Type: schema.TypeInteger, Format: schema.FormatInt32}, nil
	case ir.PrimitiveFloat:
		if d.BitSize == 32 {
			return &schema.Primitive{Type: schema.TypeNumber, Format: schema.FormatFloat}, nil
		}
		return &schema.Primitive{Type: schema.TypeNumber, Format: schema.FormatDouble}, nil
	case ir.PrimitiveString:
		return &schema.Primitive{Type: schema.TypeString}, nil
	case ir.PrimitiveBytes:
		return &schema.Primitive{Type: schema.TypeString, Format: schema.FormatByte}, nil
	case ir.PrimitiveTime:
		return &schema.Primitive{Type: schema.TypeString, Format: schema.FormatDateTime}, nil
	case ir.PrimitiveDuration:
		return &schema.Primitive{Type: schema.TypeInteger, Format: schema.FormatInt64}, nil
	case ir.PrimitiveAny, ir.PrimitiveEmpty:
		return r.reference(ObjectID, nil)
	}
	return nil, Errorf(CodeUnsupportedType, "unsupported primitive %s", d.GoName())
}

func (r *Registry) enum(d *ir.EnumDescriptor) (*schema.Enum, error) {
	values := make([]any, 0, len(d.Members))
	switch {
	case d.StringValued():
		for _, m := range d.Members {
			values = append(values, fmt.Sprint(m.Value))
		}
		return &schema.Enum{Type: schema.TypeString, Values: values}, nil
	case d.Encoding == ir.EnumEncodingNames || r.opts.EnumNames:
		for _, m := range d.Members {
			name := m.Name
			if r.opts.CamelCaseEnums {
				name = naming.CamelCase(name)
			}
			values = append(values, name)
		}
		return &schema.Enum{Type: schema.TypeString, Values: values}, nil
	}
	for _, m := range d.Members {
		n, ok := toInt64(m.Value)
		if !ok {
			return nil, Errorf(CodeUnsupportedType, "enum %s: member %s has non-integer value %v", d.Name, m.Name, m.Value).
				WithDetail("member", m.Name)
		}
		values = append(values, n)
	}
	return &schema.Enum{Type: schema.TypeInteger, Format: schema.FormatInt32, Values: values}, nil
}

// toInt64 converts an integral member value. Floats qualify only when they
// have no fractional part.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func setDescription(s schema.Schema, description string) {
	switch v := s.(type) {
	case *schema.Primitive:
		v.Description = description
	case *schema.Enum:
		v.Description = description
	case *schema.Array:
		v.Description = description
	case *schema.Dictionary:
		v.Description = description
	case *schema.Object:
		v.Description = description
	}
}

// setReadOnly marks s read-only. References are marked too: the flag on a
// property's reference is what query flattening consults.
func setReadOnly(s schema.Schema) {
	switch v := s.(type) {
	case *schema.Ref:
		v.ReadOnly = true
	case *schema.Primitive:
		v.ReadOnly = true
	case *schema.Enum:
		v.ReadOnly = true
	case *schema.Array:
		v.ReadOnly = true
	case *schema.Dictionary:
		v.ReadOnly = true
	case *schema.Object:
		v.ReadOnly = true
	}
}
