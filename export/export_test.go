package export

import (
	"context"
	"strings"
	"testing"

	"github.com/broady/swaggen/schema"
)

func petDocument() *schema.Document {
	return &schema.Document{
		Definitions: map[string]schema.Schema{
			"Pet": &schema.Object{
				Meta: schema.Meta{Description: "A pet."},
				Properties: []schema.Property{
					{Name: "id", Schema: &schema.Primitive{Type: schema.TypeInteger, Format: schema.FormatInt64, Meta: schema.Meta{ReadOnly: true}}},
					{Name: "name", Schema: &schema.Primitive{Type: schema.TypeString}},
					{Name: "tags", Schema: &schema.Array{Items: &schema.Primitive{Type: schema.TypeString}}},
					{Name: "labels", Schema: &schema.Dictionary{Values: &schema.Primitive{Type: schema.TypeString}}},
					{Name: "owner", Schema: &schema.Ref{Name: "Owner"}},
				},
				Required: []string{"name"},
			},
			"Owner": &schema.Object{
				Properties: []schema.Property{
					{Name: "email", Schema: &schema.Primitive{Type: schema.TypeString}},
				},
			},
		},
		Operations: []schema.Operation{
			{
				ID:     "createPet",
				Method: "post",
				Path:   "/pets",
				Parameters: []schema.Parameter{
					{Name: "pet", In: schema.InBody, Required: true, Schema: &schema.Ref{Name: "Pet"}},
				},
			},
			{
				ID:      "listPets",
				Method:  "GET",
				Path:    "/pets",
				Summary: "List pets",
				Parameters: []schema.Parameter{
					{Name: "name", In: schema.InQuery, Type: schema.TypeString},
					{Name: "tags", In: schema.InQuery, Type: schema.TypeArray, Items: &schema.Primitive{Type: schema.TypeString}, CollectionFormat: schema.CollectionMulti},
					{Name: "limit", In: schema.InQuery, Type: schema.TypeInteger, Format: schema.FormatInt32},
				},
			},
		},
	}
}

func TestSwagger(t *testing.T) {
	doc, err := Swagger(petDocument(), Info{Title: "Pets", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Swagger() error = %v", err)
	}

	if doc.Swagger != "2.0" {
		t.Errorf("Swagger = %q, want 2.0", doc.Swagger)
	}
	if len(doc.Definitions) != 2 {
		t.Errorf("len(Definitions) = %d, want 2", len(doc.Definitions))
	}
	if doc.Definitions["Pet"].Value == nil {
		t.Fatal("Definitions[Pet] has no value")
	}
	if got := doc.Definitions["Pet"].Value.Properties["owner"].Ref; got != "#/definitions/Owner" {
		t.Errorf("owner ref = %q, want #/definitions/Owner", got)
	}

	item := doc.Paths["/pets"]
	if item == nil || item.Post == nil || item.Get == nil {
		t.Fatalf("Paths[/pets] = %+v, want GET and POST", item)
	}
	if item.Post.OperationID != "createPet" {
		t.Errorf("Post.OperationID = %q", item.Post.OperationID)
	}
	if body := item.Post.Parameters[0]; body.In != "body" || body.Schema == nil || body.Schema.Ref != "#/definitions/Pet" {
		t.Errorf("body parameter = %+v", body)
	}
	if len(item.Get.Parameters) != 3 {
		t.Fatalf("len(Get.Parameters) = %d, want 3", len(item.Get.Parameters))
	}
	tags := item.Get.Parameters[1]
	if tags.CollectionFormat != "multi" || tags.Items == nil {
		t.Errorf("tags parameter = %+v, want multi with items", tags)
	}
	if item.Get.Responses["default"] == nil {
		t.Error("Get has no default response")
	}
}

func TestSwagger_Errors(t *testing.T) {
	tests := []struct {
		name string
		op   schema.Operation
		want string
	}{
		{"method", schema.Operation{ID: "x", Method: "TRACEX", Path: "/x"}, "unsupported method"},
		{"path", schema.Operation{ID: "x", Method: "GET", Path: "x"}, "must start with /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Swagger(&schema.Document{Operations: []schema.Operation{tt.op}}, Info{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Swagger() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	doc, err := Swagger(petDocument(), Info{Title: "Pets", Version: "1.0.0"})
	if err != nil {
		t.Fatal(err)
	}

	js, err := Encode(doc, FormatJSON)
	if err != nil {
		t.Fatalf("Encode(json) error = %v", err)
	}
	if !strings.HasPrefix(string(js), "{\n  ") || !strings.HasSuffix(string(js), "}\n") {
		t.Errorf("Encode(json) is not indented:\n%s", js)
	}
	if !strings.Contains(string(js), `"collectionFormat": "multi"`) {
		t.Errorf("Encode(json) missing collectionFormat:\n%s", js)
	}

	y, err := Encode(doc, FormatYAML)
	if err != nil {
		t.Fatalf("Encode(yaml) error = %v", err)
	}
	if strings.Contains(string(y), "{\"") {
		t.Errorf("Encode(yaml) kept flow style:\n%s", y)
	}
	if !strings.Contains(string(y), "operationId: createPet") {
		t.Errorf("Encode(yaml) missing operationId:\n%s", y)
	}

	for _, data := range [][]byte{js, y} {
		loaded, err := Load(data)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.Swagger != "2.0" {
			t.Errorf("loaded Swagger = %q, want 2.0", loaded.Swagger)
		}
		if len(loaded.Definitions) != 2 {
			t.Errorf("loaded len(Definitions) = %d, want 2", len(loaded.Definitions))
		}
		if loaded.Paths["/pets"] == nil || loaded.Paths["/pets"].Get == nil {
			t.Errorf("loaded document lost GET /pets")
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	if _, err := Encode(map[string]string{}, Format("toml")); err == nil {
		t.Error("Encode(toml) should fail")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
	if FormatYAML.Ext() != ".yaml" {
		t.Errorf("Ext() = %q", FormatYAML.Ext())
	}
}

func TestLoad_RejectsOtherVersions(t *testing.T) {
	tests := []string{
		`openapi: 3.0.0`,
		`{"info": {}}`,
		`not: [valid`,
	}
	for _, in := range tests {
		if _, err := Load([]byte(in)); err == nil {
			t.Errorf("Load(%q) should fail", in)
		}
	}
}

func TestValidate(t *testing.T) {
	doc, err := Swagger(petDocument(), Info{Title: "Pets", Version: "1.0.0"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(context.Background(), doc); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	v3, err := OpenAPI3(doc)
	if err != nil {
		t.Fatal(err)
	}
	if v3.Components.Schemas["Pet"] == nil {
		t.Error("OpenAPI3() lost the Pet schema")
	}
}

func TestValidate_EmptyDocument(t *testing.T) {
	doc, err := Swagger(&schema.Document{}, Info{Title: "Empty", Version: "0.1.0"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(context.Background(), doc); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_MissingTitle(t *testing.T) {
	doc, err := Swagger(petDocument(), Info{Version: "1.0.0"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(context.Background(), doc); err == nil {
		t.Error("Validate() should reject a document without a title")
	}
}
