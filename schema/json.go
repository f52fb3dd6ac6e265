package schema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// JSON serialization in the Swagger 2.0 shape.

// MarshalJSON implements json.Marshaler for Ref.
func (r *Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Ref string `json:"$ref"`
	}{
		Ref: r.Pointer(),
	})
}

// MarshalJSON implements json.Marshaler for Primitive.
func (p *Primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type        string `json:"type"`
		Format      string `json:"format,omitempty"`
		Description string `json:"description,omitempty"`
		ReadOnly    bool   `json:"readOnly,omitempty"`
	}{
		Type:        p.Type,
		Format:      p.Format,
		Description: p.Description,
		ReadOnly:    p.ReadOnly,
	})
}

// MarshalJSON implements json.Marshaler for Enum.
func (e *Enum) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type        string `json:"type"`
		Format      string `json:"format,omitempty"`
		Enum        []any  `json:"enum"`
		Description string `json:"description,omitempty"`
		ReadOnly    bool   `json:"readOnly,omitempty"`
	}{
		Type:        e.Type,
		Format:      e.Format,
		Enum:        e.Values,
		Description: e.Description,
		ReadOnly:    e.ReadOnly,
	})
}

// MarshalJSON implements json.Marshaler for Array.
func (a *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type        string `json:"type"`
		Items       Schema `json:"items"`
		Description string `json:"description,omitempty"`
		ReadOnly    bool   `json:"readOnly,omitempty"`
	}{
		Type:        TypeArray,
		Items:       a.Items,
		Description: a.Description,
		ReadOnly:    a.ReadOnly,
	})
}

// MarshalJSON implements json.Marshaler for Dictionary.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type                 string `json:"type"`
		AdditionalProperties Schema `json:"additionalProperties"`
		Description          string `json:"description,omitempty"`
		ReadOnly             bool   `json:"readOnly,omitempty"`
	}{
		Type:                 TypeObject,
		AdditionalProperties: d.Values,
		Description:          d.Description,
		ReadOnly:             d.ReadOnly,
	})
}

// MarshalJSON implements json.Marshaler for Object.
// Properties are written in declaration order.
func (o *Object) MarshalJSON() ([]byte, error) {
	props, err := marshalProperties(o.Properties)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&struct {
		Type        string          `json:"type"`
		Properties  json.RawMessage `json:"properties"`
		Required    []string        `json:"required,omitempty"`
		Description string          `json:"description,omitempty"`
	}{
		Type:        TypeObject,
		Properties:  props,
		Required:    o.Required,
		Description: o.Description,
	})
}

func marshalProperties(props []Property) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range props {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Schema)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Parameter.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name             string   `json:"name"`
		In               Location `json:"in"`
		Description      string   `json:"description,omitempty"`
		Required         bool     `json:"required"`
		Schema           Schema   `json:"schema,omitempty"`
		Type             string   `json:"type,omitempty"`
		Format           string   `json:"format,omitempty"`
		Items            Schema   `json:"items,omitempty"`
		CollectionFormat string   `json:"collectionFormat,omitempty"`
		Enum             []any    `json:"enum,omitempty"`
		Default          any      `json:"default,omitempty"`
	}{
		Name:             p.Name,
		In:               p.In,
		Description:      p.Description,
		Required:         p.Required,
		Schema:           p.Schema,
		Type:             p.Type,
		Format:           p.Format,
		Items:            p.Items,
		CollectionFormat: p.CollectionFormat,
		Enum:             p.Enum,
		Default:          p.Default,
	})
}
