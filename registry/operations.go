package registry

import (
	"fmt"

	"github.com/broady/swaggen/schema"
)

// OperationDescription is an API operation whose inputs are described by
// type descriptors.
type OperationDescription struct {
	ID      string
	Method  string
	Path    string
	Summary string

	Parameters []ParameterDescription
}

// DescribeOperation creates the parameters of every input of op, in input
// order. Definitions registered along the way stay in the registry.
func (r *Registry) DescribeOperation(op OperationDescription) (schema.Operation, error) {
	out := schema.Operation{
		ID:      op.ID,
		Method:  op.Method,
		Path:    op.Path,
		Summary: op.Summary,
	}
	for _, desc := range op.Parameters {
		params, err := r.CreateParameters(desc)
		if err != nil {
			return schema.Operation{}, fmt.Errorf("operation %s: parameter %q: %w", op.ID, desc.Name, err)
		}
		out.Parameters = append(out.Parameters, params...)
	}
	return out, nil
}

// Document pairs the registry's definitions with ops.
func (r *Registry) Document(ops []schema.Operation) *schema.Document {
	return &schema.Document{
		Definitions: r.Definitions(),
		Operations:  ops,
	}
}
