// Package manifest reads type and operation descriptions from YAML, for
// APIs whose inputs are not Go types.
//
// A manifest looks like:
//
//	package: example.com/pets
//	types:
//	  - name: Pet
//	    description: A pet.
//	    fields:
//	      - name: id
//	        type: int64
//	        readOnly: true
//	      - name: name
//	        type: string
//	        required: true
//	      - name: owner
//	        type: "*Owner"
//	  - name: Status
//	    enum: [available, sold]
//	  - name: Tags
//	    type: "[]string"
//	operations:
//	  - id: listPets
//	    method: GET
//	    path: /pets
//	    parameters:
//	      - in: query
//	        type: PetFilter
//	        optional: true
//
// Type expressions are Go-like: builtin scalars, []T, map[string]T, *T,
// time.Time, time.Duration, any, and names of manifest types.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/registry"
	"github.com/broady/swaggen/schema"
)

// Manifest is the decoded YAML document.
type Manifest struct {
	// Package qualifies every type name. It keeps manifest types apart from
	// same-named types of other sources.
	Package string `yaml:"package"`

	Types      []Type      `yaml:"types" validate:"dive"`
	Operations []Operation `yaml:"operations" validate:"dive"`
}

// Type is a named type: a struct when Fields is set, an enum when Enum is
// set, and an alias of the Type expression otherwise.
type Type struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Deprecated  string   `yaml:"deprecated"`
	Type        string   `yaml:"type"`
	Fields      []Field  `yaml:"fields" validate:"dive"`
	Enum        []Member `yaml:"enum"`

	// Encoding is "names" or "values" (default) for enums.
	Encoding string `yaml:"encoding" validate:"omitempty,oneof=names values"`
}

// Field is a struct field.
type Field struct {
	Name        string `yaml:"name" validate:"required"`
	Type        string `yaml:"type" validate:"required"`
	Description string `yaml:"description"`
	Deprecated  string `yaml:"deprecated"`
	Required    bool   `yaml:"required"`
	Optional    bool   `yaml:"optional"`
	ReadOnly    bool   `yaml:"readOnly"`
	Ignore      bool   `yaml:"ignore"`
}

// Member is an enum member. A bare scalar is shorthand for a member whose
// name is the scalar's text.
type Member struct {
	Name        string `yaml:"name"`
	Value       any    `yaml:"value"`
	Description string `yaml:"description"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (m *Member) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		m.Value = v
		m.Name = node.Value
		return nil
	}
	type plain Member
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("line %d: enum member needs a name", node.Line)
	}
	if p.Value == nil {
		p.Value = p.Name
	}
	*m = Member(p)
	return nil
}

// Operation is an API operation.
type Operation struct {
	ID         string      `yaml:"id" validate:"required"`
	Method     string      `yaml:"method" validate:"required,oneof=GET PUT POST DELETE PATCH HEAD OPTIONS get put post delete patch head options"`
	Path       string      `yaml:"path" validate:"required,startswith=/"`
	Summary    string      `yaml:"summary"`
	Parameters []Parameter `yaml:"parameters" validate:"dive"`
}

// Parameter is one operation input. An empty Type declares a plain
// required string.
type Parameter struct {
	Name        string `yaml:"name" validate:"required_unless=In query"`
	In          string `yaml:"in" validate:"required,oneof=query path header body"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Optional    bool   `yaml:"optional"`
	Default     any    `yaml:"default"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(yamlTagName)
	return v
}

// Parse decodes and validates a manifest. Unknown keys are errors.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks required keys and allowed values.
func (m *Manifest) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("manifest: %w", err)
	}
	msgs := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldPath(fe.Namespace()), fieldErrorMessage(fe)))
	}
	return fmt.Errorf("manifest: %s", strings.Join(msgs, "; "))
}

// Catalog describes the manifest's types.
func (m *Manifest) Catalog() (*ir.Catalog, error) {
	cat := &ir.Catalog{Package: ir.PackageInfo{Path: m.Package}}
	seen := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		if seen[t.Name] {
			return nil, fmt.Errorf("manifest: duplicate type %s", t.Name)
		}
		seen[t.Name] = true
		td, err := m.describe(t)
		if err != nil {
			return nil, fmt.Errorf("manifest: type %s: %w", t.Name, err)
		}
		cat.AddType(td)
	}
	if errs := cat.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("manifest: %s", ir.JoinErrors(errs))
	}
	return cat, nil
}

// Describe returns the manifest's operations as registry descriptions.
func (m *Manifest) Describe() ([]registry.OperationDescription, error) {
	ops := make([]registry.OperationDescription, 0, len(m.Operations))
	for _, op := range m.Operations {
		desc := registry.OperationDescription{
			ID:      op.ID,
			Method:  strings.ToUpper(op.Method),
			Path:    op.Path,
			Summary: op.Summary,
		}
		for _, p := range op.Parameters {
			pd := registry.ParameterDescription{
				Name:        p.Name,
				In:          schema.Location(p.In),
				Description: p.Description,
			}
			if p.Type != "" {
				td, err := ParseType(p.Type, m.Package)
				if err != nil {
					return nil, fmt.Errorf("manifest: operation %s parameter %q: %w", op.ID, p.Name, err)
				}
				pd.Descriptor = &registry.ParameterDescriptor{Type: td, Optional: p.Optional, Default: p.Default}
			}
			desc.Parameters = append(desc.Parameters, pd)
		}
		ops = append(ops, desc)
	}
	return ops, nil
}

func (m *Manifest) describe(t Type) (ir.TypeDescriptor, error) {
	id := ir.GoIdentifier{Name: t.Name, Package: m.Package}
	doc := documentation(t.Description, t.Deprecated)

	switch {
	case len(t.Fields) > 0 && len(t.Enum) > 0:
		return nil, errors.New("fields and enum are mutually exclusive")
	case len(t.Fields) > 0:
		return m.describeStruct(id, doc, t.Fields)
	case len(t.Enum) > 0:
		return describeEnum(id, doc, t)
	case t.Type == "" || t.Type == "struct":
		return &ir.StructDescriptor{Name: id, Documentation: doc}, nil
	}

	underlying, err := ParseType(t.Type, m.Package)
	if err != nil {
		return nil, err
	}
	return &ir.AliasDescriptor{Name: id, Underlying: underlying, Documentation: doc}, nil
}

func (m *Manifest) describeStruct(id ir.GoIdentifier, doc ir.Documentation, fields []Field) (*ir.StructDescriptor, error) {
	d := &ir.StructDescriptor{Name: id, Documentation: doc}
	for _, f := range fields {
		fd := ir.FieldDescriptor{
			Name:          f.Name,
			JSONName:      f.Name,
			Optional:      f.Optional,
			Required:      f.Required,
			ReadOnly:      f.ReadOnly,
			Skip:          f.Ignore,
			Documentation: documentation(f.Description, f.Deprecated),
		}
		if !f.Ignore {
			td, err := ParseType(f.Type, m.Package)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			fd.Type = td
		}
		d.Fields = append(d.Fields, fd)
	}
	return d, nil
}

func describeEnum(id ir.GoIdentifier, doc ir.Documentation, t Type) (*ir.EnumDescriptor, error) {
	d := &ir.EnumDescriptor{Name: id, Documentation: doc}
	if t.Encoding == "names" {
		d.Encoding = ir.EnumEncodingNames
	}
	for _, m := range t.Enum {
		v, err := memberValue(m.Value)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		d.Members = append(d.Members, ir.EnumMember{
			Name:          m.Name,
			Value:         v,
			Documentation: ir.Documentation{Summary: m.Description},
		})
	}
	return d, nil
}

// memberValue narrows a decoded YAML scalar to string, int64, or float64.
func memberValue(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		return v, nil
	case bool:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
}

func documentation(summary, deprecated string) ir.Documentation {
	doc := ir.Documentation{Summary: summary}
	if deprecated != "" {
		doc.Deprecated = &deprecated
	}
	return doc
}

func yamlTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldPath drops the root type from a validator namespace:
// "Manifest.operations[0].path" -> "operations[0].path".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
