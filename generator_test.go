package swaggen

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/broady/swaggen/export"
	"github.com/broady/swaggen/manifest"
	"github.com/broady/swaggen/sink"
)

type Owner struct {
	Email string `json:"email" validate:"required"`
}

type Pet struct {
	ID    int64    `json:"id" swagger:"readonly"`
	Name  string   `json:"name" validate:"required" doc:"Pet name."`
	Owner *Owner   `json:"owner,omitempty"`
	Tags  []string `json:"tags"`
}

type PetFilter struct {
	Name  string
	Owner Owner `validate:"required"`
	Tags  []string
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func petOperations() *Generator {
	return FromOperations(
		Operation{
			ID: "createPet", Method: "post", Path: "/pets",
			Params: []Param{Body("pet", Pet{})},
		},
		Operation{
			ID: "listPets", Method: "GET", Path: "/pets", Summary: "List pets",
			Params: []Param{
				Query("", PetFilter{}),
				Header("X-Request-ID", "").WithDescription("Correlation id."),
			},
		},
		Operation{
			ID: "getPet", Method: "GET", Path: "/pets/{id}",
			Params: []Param{Path("id", int64(0))},
		},
	).Logger(quietLogger())
}

func TestGenerate(t *testing.T) {
	result, mem, err := petOperations().
		Title("Pets").
		Formats(export.FormatJSON, export.FormatYAML).
		ValidateOutput().
		Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if want := []string{"swagger.json", "swagger.yaml"}; !reflect.DeepEqual(mem.Paths(), want) {
		t.Errorf("Paths() = %v, want %v", mem.Paths(), want)
	}
	if len(result.Files) != 2 || result.Files[0].Size != int64(len(mem.Get("swagger.json"))) {
		t.Errorf("Files = %+v", result.Files)
	}

	for _, name := range []string{"Pet", "Owner", "PetFilter"} {
		if _, ok := result.Document.Definitions[name]; !ok {
			t.Errorf("missing definition %s", name)
		}
	}

	doc, err := export.Load(mem.Get("swagger.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Info.Title != "Pets" || doc.Info.Version != "1.0.0" {
		t.Errorf("Info = %+v", doc.Info)
	}

	list := doc.Paths["/pets"].Get
	if list == nil || list.OperationID != "listPets" {
		t.Fatalf("GET /pets = %+v", list)
	}
	var names []string
	required := map[string]bool{}
	for _, p := range list.Parameters {
		names = append(names, p.Name)
		required[p.Name] = p.Required
	}
	if want := []string{"name", "owner.email", "tags", "X-Request-ID"}; !reflect.DeepEqual(names, want) {
		t.Errorf("parameters = %v, want %v", names, want)
	}
	if required["name"] || !required["owner.email"] || !required["X-Request-ID"] {
		t.Errorf("required = %v", required)
	}
	if tags := list.Parameters[2]; tags.CollectionFormat != "multi" {
		t.Errorf("tags collectionFormat = %q, want multi", tags.CollectionFormat)
	}

	create := doc.Paths["/pets"].Post
	if create == nil || create.Parameters[0].Schema.Ref != "#/definitions/Pet" {
		t.Errorf("POST /pets = %+v", create)
	}
	get := doc.Paths["/pets/{id}"].Get
	if p := get.Parameters[0]; p.In != "path" || !p.Required || p.Type != "integer" || p.Format != "int64" {
		t.Errorf("id parameter = %+v", p)
	}
}

func TestToDir(t *testing.T) {
	dir := t.TempDir()
	result, err := petOperations().WithOpenAPI3().FileName("pets").ToDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ToDir() error = %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("Files = %+v", result.Files)
	}
	for _, name := range []string{"pets.json", "pets.openapi3.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	data, _ := os.ReadFile(filepath.Join(dir, "pets.openapi3.json"))
	if !strings.Contains(string(data), `"openapi"`) {
		t.Errorf("pets.openapi3.json does not declare OpenAPI 3:\n%s", data)
	}
}

func TestToDir_UsesConfigOutDir(t *testing.T) {
	dir := t.TempDir()
	_, err := FromTypes(Pet{}).WithConfig(Config{OutDir: dir, Logger: quietLogger()}).ToDir(context.Background(), "")
	if err != nil {
		t.Fatalf("ToDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "swagger.json")); err != nil {
		t.Errorf("swagger.json not written: %v", err)
	}

	if _, err := FromTypes(Pet{}).Logger(quietLogger()).ToDir(context.Background(), ""); err == nil {
		t.Error("ToDir(\"\") without OutDir should fail")
	}
}

func TestDocument_FromTypes(t *testing.T) {
	doc, _, err := FromTypes(Pet{}).SchemaIDs("full").Logger(quietLogger()).Document(context.Background())
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	want := []string{"github.com.broady.swaggen.Owner", "github.com.broady.swaggen.Pet"}
	if got := doc.DefinitionNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("DefinitionNames() = %v, want %v", got, want)
	}
	if len(doc.Operations) != 0 {
		t.Errorf("Operations = %+v, want none", doc.Operations)
	}
}

func TestFromManifest(t *testing.T) {
	const manifest = `
package: example.com/pets
types:
  - name: Pet
    fields:
      - name: name
        type: string
        required: true
operations:
  - id: createPet
    method: POST
    path: /pets
    parameters:
      - name: pet
        in: body
        type: Pet
`
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	out := sink.NewMemorySink()
	result, err := FromManifest(path).Logger(quietLogger()).ToSink(context.Background(), out)
	if err != nil {
		t.Fatalf("ToSink() error = %v", err)
	}
	if _, ok := result.Document.Definitions["Pet"]; !ok {
		t.Errorf("Definitions = %v, want Pet", result.Document.DefinitionNames())
	}
	if result.Swagger.Paths["/pets"].Post == nil {
		t.Errorf("POST /pets missing")
	}
}

func TestFromDescriptors(t *testing.T) {
	m, err := manifest.Parse([]byte(`
package: example.com/store
types:
  - name: Order
    fields:
      - name: id
        type: int64
  - name: Audit
    fields:
      - name: at
        type: time.Time
operations:
  - id: getOrder
    method: GET
    path: /orders/{id}
    parameters:
      - name: id
        in: path
        type: int64
`))
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := m.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	descs, err := m.Describe()
	if err != nil {
		t.Fatal(err)
	}

	doc, _, err := FromDescriptors(catalog, descs...).Logger(quietLogger()).Document(context.Background())
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if want := []string{"Audit", "Order"}; !reflect.DeepEqual(doc.DefinitionNames(), want) {
		t.Errorf("DefinitionNames() = %v, want %v", doc.DefinitionNames(), want)
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Parameters[0].Type != "integer" {
		t.Errorf("Operations = %+v", doc.Operations)
	}
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		gen  *Generator
		want string
	}{
		{"no input", FromOperations(), "nothing to generate"},
		{"bad schema ids", FromTypes(Pet{}).SchemaIDs("long"), "schemaIds: must be one of"},
		{"unsupported param", FromOperations(Operation{
			ID: "watch", Method: "GET", Path: "/watch",
			Params: []Param{Query("events", make(chan int))},
		}), "unsupported type"},
		{"bad method", FromOperations(Operation{ID: "x", Method: "FETCH", Path: "/x"}), "FETCH"},
		{"missing manifest", FromManifest(filepath.Join(t.TempDir(), "missing.yaml")), "missing.yaml"},
		{"unknown provider", FromTypes(Pet{}).WithConfig(Config{Provider: "magic"}), "provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.gen.Logger(quietLogger()).Generate(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Generate() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCollectRootTypeNames(t *testing.T) {
	names, pkgs, err := collectRootTypeNames([]reflect.Type{
		reflect.TypeOf(&Pet{}),
		reflect.TypeOf([]PetFilter{}),
		reflect.TypeOf(map[string]Owner{}),
		reflect.TypeOf(int64(0)),
		reflect.TypeOf(Pet{}),
	})
	if err != nil {
		t.Fatalf("collectRootTypeNames() error = %v", err)
	}
	if want := []string{"Owner", "Pet", "PetFilter"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if want := []string{"github.com/broady/swaggen"}; !reflect.DeepEqual(pkgs, want) {
		t.Errorf("pkgs = %v, want %v", pkgs, want)
	}
}
