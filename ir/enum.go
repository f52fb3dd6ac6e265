package ir

// EnumEncoding describes how enum members appear on the wire.
type EnumEncoding int

const (
	// EnumEncodingValues serializes members as their constant values.
	EnumEncodingValues EnumEncoding = iota

	// EnumEncodingNames serializes members by name, e.g. because the type
	// implements encoding.TextMarshaler.
	EnumEncodingNames
)

// EnumDescriptor represents an enumeration.
type EnumDescriptor struct {
	Name GoIdentifier

	// Members in declaration order.
	Members []EnumMember

	Encoding EnumEncoding

	Documentation Documentation
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() DescriptorKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() GoIdentifier { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDescriptor) Doc() Documentation { return d.Documentation }

func (*EnumDescriptor) sealed() {}

// StringValued reports whether any member has a string value.
func (d *EnumDescriptor) StringValued() bool {
	for _, m := range d.Members {
		if _, ok := m.Value.(string); ok {
			return true
		}
	}
	return false
}

// EnumMember represents a single enum variant.
type EnumMember struct {
	// Name is the constant name.
	Name string

	// Value is one of string, int64, or float64.
	Value any

	Documentation Documentation
}
