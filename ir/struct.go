package ir

// StructDescriptor represents an object type with an ordered list of fields.
type StructDescriptor struct {
	Name GoIdentifier

	// Fields in declaration order. Ignored and obsolete fields are kept here
	// with their flags set; consumers decide whether to drop them.
	Fields []FieldDescriptor

	Documentation Documentation
}

// Kind returns KindStruct.
func (d *StructDescriptor) Kind() DescriptorKind { return KindStruct }

// TypeName returns the struct's name.
func (d *StructDescriptor) TypeName() GoIdentifier { return d.Name }

// Doc returns the struct's documentation.
func (d *StructDescriptor) Doc() Documentation { return d.Documentation }

func (*StructDescriptor) sealed() {}

// Field returns the field with the given JSON name, or nil.
func (d *StructDescriptor) Field(jsonName string) *FieldDescriptor {
	for i := range d.Fields {
		if d.Fields[i].JSONName == jsonName {
			return &d.Fields[i]
		}
	}
	return nil
}

// FieldDescriptor represents a single property of a struct.
type FieldDescriptor struct {
	// Name is the Go field name.
	Name string

	// Type is the field's type descriptor.
	Type TypeDescriptor

	// JSONName is the serialized property name.
	// Falls back to Name if the provider found no explicit name.
	JSONName string

	// Optional is set by json:",omitempty" / json:",omitzero".
	// It does not affect required-ness; only Required does.
	Optional bool

	// Required marks the property as mandatory (validate:"required").
	Required bool

	// ReadOnly marks a property that is only ever set by the server.
	// Read-only properties never become query inputs.
	ReadOnly bool

	// Skip marks an ignored property (json:"-" or swagger:"ignore").
	Skip bool

	// ValidateTag is the raw value of the `validate` struct tag.
	ValidateTag string

	// RawTags preserves all recognized struct tags.
	RawTags map[string]string

	Documentation Documentation
}

// Obsolete reports whether the field is marked deprecated.
func (f FieldDescriptor) Obsolete() bool {
	return f.Documentation.Deprecated != nil
}

// Description returns the text used as the property description.
func (f FieldDescriptor) Description() string {
	return f.Documentation.Summary
}
