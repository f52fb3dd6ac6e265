package registry

import (
	"github.com/broady/swaggen/schema"
)

// Flatten rewrites query parameters into the shape Swagger 2.0 can express.
// Query arrays use the "multi" collection format, and query parameters
// bound to an object definition are replaced by one parameter per leaf
// property, named by dotted path. Array items of non-body parameters are
// reduced to scalar facets. params is not modified.
func (r *Registry) Flatten(params []schema.Parameter) ([]schema.Parameter, error) {
	out := make([]schema.Parameter, 0, len(params))
	var expanded []schema.Parameter

	for _, p := range params {
		if p.In == schema.InQuery && p.Type == schema.TypeArray {
			p.CollectionFormat = schema.CollectionMulti
		}
		if p.In != schema.InQuery || p.Type != "" {
			out = append(out, p)
			continue
		}
		if p.Binding == nil {
			return nil, Errorf(CodeMissingDefinition, "query parameter %q has neither a type nor a binding", p.Name)
		}

		qualifier := ""
		if p.Name != "" {
			qualifier = p.Name + "."
		}
		leaves, err := r.expand(p.Binding.Name, qualifier, p.Required, map[string]bool{})
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, leaves...)
	}
	out = append(out, expanded...)
	for i := range out {
		out[i] = r.scalarItems(out[i])
	}
	return out, nil
}

// scalarItems inlines references in the array items of a non-body
// parameter, since Swagger 2.0 allows "$ref" only in the body. Items with
// no scalar form (objects, maps, arrays nested in themselves) are described
// as strings.
func (r *Registry) scalarItems(p schema.Parameter) schema.Parameter {
	if p.In == schema.InBody || p.Items == nil {
		return p
	}
	items, ok := r.resolveItems(p.Items, map[string]bool{})
	if !ok {
		r.logger.Warn("parameter array items have no scalar form, describing them as strings",
			"parameter", p.Name)
		items = &schema.Primitive{Type: schema.TypeString}
	}
	p.Items = items
	return p
}

func (r *Registry) resolveItems(s schema.Schema, seen map[string]bool) (schema.Schema, bool) {
	switch v := s.(type) {
	case *schema.Primitive, *schema.Enum:
		return s, true
	case *schema.Array:
		items, ok := r.resolveItems(v.Items, seen)
		if !ok {
			return nil, false
		}
		return &schema.Array{Meta: v.Meta, Items: items}, true
	case *schema.Ref:
		target, ok := r.definitions[v.Name]
		if !ok || seen[v.Name] {
			return nil, false
		}
		seen[v.Name] = true
		return r.resolveItems(target, seen)
	}
	return nil, false
}

// expand emits one query parameter per leaf property of the named object
// definition. path holds the definitions being expanded above this one.
func (r *Registry) expand(name, qualifier string, required bool, path map[string]bool) ([]schema.Parameter, error) {
	def, ok := r.definitions[name]
	if !ok {
		return nil, Errorf(CodeMissingDefinition, "definition %q not found", name)
	}
	obj, ok := def.(*schema.Object)
	if !ok {
		return nil, Errorf(CodeMissingDefinition, "definition %q is not an object", name)
	}

	path[name] = true
	defer delete(path, name)

	var out []schema.Parameter
	for _, prop := range obj.Properties {
		info := prop.Schema.Info()
		if info.ReadOnly {
			continue
		}
		propRequired := required && obj.IsRequired(prop.Name)
		propName := qualifier + r.opts.NameTransform(prop.Name)

		if ref, isRef := prop.Schema.(*schema.Ref); isRef {
			target, ok := r.definitions[ref.Name]
			if !ok {
				return nil, Errorf(CodeMissingDefinition, "property %q refers to undefined %s", propName, ref.Pointer())
			}
			if _, isObject := target.(*schema.Object); isObject {
				if path[ref.Name] {
					r.logger.Debug("skipping recursive query expansion", "parameter", propName, "definition", ref.Name)
					continue
				}
				nested, err := r.expand(ref.Name, propName+".", propRequired, path)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
				continue
			}
			// Non-object definitions are leaves carrying the target's facets.
			leaf := schema.Parameter{Name: propName, In: schema.InQuery, Required: propRequired, Description: info.Description}
			leaf.Populate(target)
			out = append(out, multi(leaf))
			continue
		}

		leaf := schema.Parameter{Name: propName, In: schema.InQuery, Required: propRequired, Description: info.Description}
		leaf.Populate(prop.Schema)
		out = append(out, multi(leaf))
	}
	return out, nil
}

func multi(p schema.Parameter) schema.Parameter {
	if p.Type == schema.TypeArray {
		p.CollectionFormat = schema.CollectionMulti
	}
	return p
}
