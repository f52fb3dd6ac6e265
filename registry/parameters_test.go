package registry

import (
	"testing"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/schema"
)

func paramNames(params []schema.Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func findParam(params []schema.Parameter, name string) *schema.Parameter {
	for i := range params {
		if params[i].Name == name {
			return &params[i]
		}
	}
	return nil
}

func TestCreateParameters_Body(t *testing.T) {
	r := newRegistry(typeName())
	params, err := r.CreateParameters(ParameterDescription{
		Name:       "input",
		In:         schema.InBody,
		Descriptor: &ParameterDescriptor{Type: ref("TypeName")},
	})
	if err != nil {
		t.Fatalf("CreateParameters() error = %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("len(params) = %d, want 1", len(params))
	}
	p := params[0]
	if p.In != schema.InBody || !p.Required {
		t.Errorf("param = %+v, want required body", p)
	}
	if got := mustJSON(t, p.Schema); got != `{"$ref":"#/definitions/TypeName"}` {
		t.Errorf("Schema = %s", got)
	}
}

func TestCreateParameters_UnnamedQueryObject(t *testing.T) {
	r := newRegistry(typeName())
	params, err := r.CreateParameters(ParameterDescription{
		In:         schema.InQuery,
		Descriptor: &ParameterDescriptor{Type: ref("TypeName"), Optional: true},
	})
	if err != nil {
		t.Fatalf("CreateParameters() error = %v", err)
	}
	names := paramNames(params)
	if len(names) != 2 || names[0] != "aNumber" || names[1] != "someText" {
		t.Fatalf("names = %v, want [aNumber someText]", names)
	}
	for _, p := range params {
		if p.Required {
			t.Errorf("%s.Required = true, want false", p.Name)
		}
		if p.In != schema.InQuery {
			t.Errorf("%s.In = %s, want query", p.Name, p.In)
		}
	}
	if params[0].Type != schema.TypeInteger || params[0].Format != schema.FormatInt32 {
		t.Errorf("aNumber facets = %s/%s", params[0].Type, params[0].Format)
	}
	if params[0].Description != "Some random number" {
		t.Errorf("aNumber description = %q", params[0].Description)
	}
}

func TestCreateParameters_NilDescriptor(t *testing.T) {
	r := newRegistry()
	params, err := r.CreateParameters(ParameterDescription{Name: "id", In: schema.InPath})
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 1 || params[0].Type != schema.TypeString || !params[0].Required {
		t.Errorf("params = %+v, want one required string", params)
	}
}

func TestCreateParameters_RequiredAndDefault(t *testing.T) {
	tests := []struct {
		name     string
		in       schema.Location
		optional bool
		want     bool
	}{
		{"path is always required", schema.InPath, true, true},
		{"optional query", schema.InQuery, true, false},
		{"mandatory query", schema.InQuery, false, true},
		{"optional header", schema.InHeader, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistry()
			params, err := r.CreateParameters(ParameterDescription{
				Name:       "limit",
				In:         tt.in,
				Descriptor: &ParameterDescriptor{Type: ir.Int(32), Optional: tt.optional, Default: 10},
			})
			if err != nil {
				t.Fatal(err)
			}
			if params[0].Required != tt.want {
				t.Errorf("Required = %v, want %v", params[0].Required, tt.want)
			}
			if params[0].Default != 10 {
				t.Errorf("Default = %v, want 10", params[0].Default)
			}
		})
	}
}

func TestCreateParameters_QueryArrayIsMulti(t *testing.T) {
	r := newRegistry()
	params, err := r.CreateParameters(ParameterDescription{
		Name:       "ids",
		In:         schema.InQuery,
		Descriptor: &ParameterDescriptor{Type: ir.Slice(ir.Int(64))},
	})
	if err != nil {
		t.Fatal(err)
	}
	if params[0].CollectionFormat != schema.CollectionMulti {
		t.Errorf("CollectionFormat = %q, want multi", params[0].CollectionFormat)
	}
}

func TestCreateParameters_HeaderArrayIsNotMulti(t *testing.T) {
	r := newRegistry()
	params, err := r.CreateParameters(ParameterDescription{
		Name:       "X-Tags",
		In:         schema.InHeader,
		Descriptor: &ParameterDescriptor{Type: ir.Slice(ir.String())},
	})
	if err != nil {
		t.Fatal(err)
	}
	if params[0].CollectionFormat != "" {
		t.Errorf("CollectionFormat = %q, want empty", params[0].CollectionFormat)
	}
}

func TestCreateParameters_PathRefToArrayDefinition(t *testing.T) {
	tree := &ir.AliasDescriptor{Name: id("Path"), Underlying: ir.Slice(ref("Path"))}
	r := newRegistry(tree)
	params, err := r.CreateParameters(ParameterDescription{
		Name:       "segments",
		In:         schema.InPath,
		Descriptor: &ParameterDescriptor{Type: ref("Path")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if params[0].Type != schema.TypeArray {
		t.Errorf("Type = %q, want array", params[0].Type)
	}
	if items, ok := params[0].Items.(*schema.Primitive); !ok || items.Type != schema.TypeString {
		t.Errorf("Items = %#v, want string primitive", params[0].Items)
	}
}
