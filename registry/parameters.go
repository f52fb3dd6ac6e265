package registry

import (
	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/schema"
)

// ParameterDescription describes one input of an API operation.
type ParameterDescription struct {
	// Name is the parameter name. May be empty for an unnamed query object,
	// whose properties then flatten to unqualified names.
	Name string

	In schema.Location

	Description string

	// Descriptor is nil when the input has no declared type; such a
	// parameter is treated as a required string.
	Descriptor *ParameterDescriptor
}

// ParameterDescriptor is the declared type of a parameter.
type ParameterDescriptor struct {
	Type     ir.TypeDescriptor
	Optional bool
	Default  any
}

// CreateParameters builds the Swagger parameters for one operation input.
// Query objects expand into one parameter per leaf property.
func (r *Registry) CreateParameters(desc ParameterDescription) ([]schema.Parameter, error) {
	p := schema.Parameter{
		Name:        desc.Name,
		In:          desc.In,
		Description: desc.Description,
	}

	if desc.Descriptor == nil {
		p.Type = schema.TypeString
		p.Required = true
		return r.Flatten([]schema.Parameter{p})
	}

	p.Required = desc.In == schema.InPath || !desc.Descriptor.Optional
	p.Default = desc.Descriptor.Default

	s, err := r.GetOrRegister(desc.Descriptor.Type)
	if err != nil {
		return nil, err
	}
	if desc.In == schema.InBody {
		p.Schema = s
	} else if err := r.populate(&p, s); err != nil {
		return nil, err
	}
	return r.Flatten([]schema.Parameter{p})
}

// populate copies the scalar facets of s onto a non-body parameter.
// References resolve to their definition; object definitions leave the
// type empty and record the binding for Flatten.
func (r *Registry) populate(p *schema.Parameter, s schema.Schema) error {
	ref, ok := s.(*schema.Ref)
	if !ok {
		p.Populate(s)
		return nil
	}
	def, ok := r.definitions[ref.Name]
	if !ok {
		return Errorf(CodeMissingDefinition, "parameter %q refers to undefined %s", p.Name, ref.Pointer())
	}
	if _, isObject := def.(*schema.Object); isObject {
		p.Binding = &schema.Ref{Name: ref.Name}
		return nil
	}
	p.Populate(def)
	return nil
}
