package provider

import (
	"reflect"
	"strings"

	"github.com/broady/swaggen/ir"
)

// recordedTags are the struct tags preserved in FieldDescriptor.RawTags.
var recordedTags = []string{"json", "validate", "doc", "swagger", "schema"}

// FieldTags is the metadata read from a struct field's tags.
//
//	json:"name,omitempty"    serialized name; "-" ignores the field
//	validate:"required"      required property
//	doc:"text"               property description
//	swagger:"ignore"         left out of definitions
//	swagger:"readonly"       set by the server only; never a query input
//	swagger:"deprecated"     obsolete, left out of definitions
type FieldTags struct {
	JSONName    string
	Optional    bool
	Required    bool
	ReadOnly    bool
	Skip        bool
	Deprecated  bool
	Description string
	Raw         map[string]string
}

// ParseFieldTags reads the tags of the field named fieldName.
func ParseFieldTags(fieldName string, tag reflect.StructTag) FieldTags {
	var ft FieldTags
	ft.JSONName, ft.Optional, ft.Skip = parseJSONTag(tag.Get("json"), fieldName)

	for _, rule := range strings.Split(tag.Get("validate"), ",") {
		if strings.TrimSpace(rule) == "required" {
			ft.Required = true
		}
	}

	for _, opt := range strings.Split(tag.Get("swagger"), ",") {
		switch strings.TrimSpace(opt) {
		case "ignore":
			ft.Skip = true
		case "readonly":
			ft.ReadOnly = true
		case "deprecated":
			ft.Deprecated = true
		}
	}

	ft.Description = tag.Get("doc")

	for _, name := range recordedTags {
		if val, ok := tag.Lookup(name); ok {
			if ft.Raw == nil {
				ft.Raw = make(map[string]string)
			}
			ft.Raw[name] = val
		}
	}
	return ft
}

// Documentation returns the tag-derived documentation.
func (ft FieldTags) Documentation() ir.Documentation {
	doc := ir.Documentation{Summary: ft.Description, Body: ft.Description}
	if ft.Deprecated {
		msg := ""
		doc.Deprecated = &msg
	}
	return doc
}

// parseJSONTag parses a json struct tag and returns the JSON name and flags.
func parseJSONTag(tag, fieldName string) (jsonName string, optional, skip bool) {
	if tag == "" {
		return fieldName, false, false
	}

	parts := strings.Split(tag, ",")
	jsonName = parts[0]

	// "-" alone skips; "-," names a field literally "-".
	if jsonName == "-" && len(parts) == 1 {
		return "", false, true
	}
	if jsonName == "" {
		jsonName = fieldName
	}

	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty", "omitzero":
			optional = true
		}
	}
	return jsonName, optional, false
}
