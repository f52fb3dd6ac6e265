// Package export turns a generated schema.Document into a Swagger 2.0
// document and encodes it for writing.
//
// The conversion goes through kin-openapi's openapi2 model so the same
// document can be converted to OpenAPI 3 and validated.
package export

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/broady/swaggen/schema"
)

// Version is the "swagger" field of every exported document.
const Version = "2.0"

// Info is the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
}

// defaultResponse stands in for the responses object, which Swagger
// requires on every operation but this module does not compute.
const defaultResponse = "default"

var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPut:     true,
	http.MethodPost:    true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodHead:    true,
	http.MethodPatch:   true,
}

// Swagger builds the Swagger 2.0 document for doc.
func Swagger(doc *schema.Document, info Info) (*openapi2.T, error) {
	out := &openapi2.T{
		Swagger: Version,
		Info: openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Definitions: make(map[string]*openapi3.SchemaRef, len(doc.Definitions)),
	}

	for _, name := range doc.DefinitionNames() {
		ref, err := schemaRef(doc.Definitions[name])
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", name, err)
		}
		out.Definitions[name] = ref
	}

	for _, op := range doc.Operations {
		method := strings.ToUpper(op.Method)
		if !methods[method] {
			return nil, fmt.Errorf("operation %q: unsupported method %q", op.ID, op.Method)
		}
		if !strings.HasPrefix(op.Path, "/") {
			return nil, fmt.Errorf("operation %q: path %q must start with /", op.ID, op.Path)
		}

		o := &openapi2.Operation{
			OperationID: op.ID,
			Summary:     op.Summary,
			Responses: map[string]*openapi2.Response{
				defaultResponse: {Description: "Default response"},
			},
		}
		for _, p := range op.Parameters {
			param, err := parameter(p)
			if err != nil {
				return nil, fmt.Errorf("operation %q parameter %q: %w", op.ID, p.Name, err)
			}
			o.Parameters = append(o.Parameters, param)
		}
		out.AddOperation(op.Path, method, o)
	}

	return out, nil
}

func parameter(p schema.Parameter) (*openapi2.Parameter, error) {
	out := &openapi2.Parameter{
		In:               string(p.In),
		Name:             p.Name,
		Description:      p.Description,
		Required:         p.Required,
		Default:          p.Default,
		Type:             p.Type,
		Format:           p.Format,
		CollectionFormat: p.CollectionFormat,
		Enum:             p.Enum,
	}
	if p.Schema != nil {
		ref, err := schemaRef(p.Schema)
		if err != nil {
			return nil, err
		}
		out.Schema = ref
	}
	if p.Items != nil {
		ref, err := schemaRef(p.Items)
		if err != nil {
			return nil, err
		}
		out.Items = ref
	}
	return out, nil
}

// schemaRef converts through the Swagger JSON form, which is the contract
// both models share.
func schemaRef(s schema.Schema) (*openapi3.SchemaRef, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	ref := &openapi3.SchemaRef{}
	if err := json.Unmarshal(data, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// OpenAPI3 converts doc to OpenAPI 3 and resolves its internal references.
func OpenAPI3(doc *openapi2.T) (*openapi3.T, error) {
	v3, err := openapi2conv.ToV3(doc)
	if err != nil {
		return nil, fmt.Errorf("convert to openapi 3: %w", err)
	}
	if v3.Paths == nil {
		v3.Paths = openapi3.Paths{}
	}
	if err := openapi3.NewLoader().ResolveRefsIn(v3, nil); err != nil {
		return nil, fmt.Errorf("resolve references: %w", err)
	}
	return v3, nil
}

// Validate checks doc by converting it to OpenAPI 3 and running the
// kin-openapi validator over the result.
func Validate(ctx context.Context, doc *openapi2.T) error {
	v3, err := OpenAPI3(doc)
	if err != nil {
		return err
	}
	if err := v3.Validate(ctx); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}

// Load parses a Swagger 2.0 document written as JSON or YAML.
func Load(data []byte) (*openapi2.T, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if v, _ := raw["swagger"].(string); !strings.HasPrefix(strings.TrimSpace(v), "2.") {
		return nil, fmt.Errorf("parse document: missing or unsupported version (expected 'swagger: \"2.0\"')")
	}

	// yaml.v3 decodes nested mappings as map[string]any, which the JSON
	// encoder accepts as-is.
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc := &openapi2.T{}
	if err := json.Unmarshal(js, doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
