package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	// Named type descriptors (appear in Catalog.Types)
	KindStruct DescriptorKind = iota // Object type with named fields
	KindAlias                        // Defined type over another type expression
	KindEnum                         // Enumeration of constants

	// Expression type descriptors (appear nested in fields and parameters)
	KindPrimitive // Built-in primitive type
	KindArray     // Ordered collection
	KindMap       // String-keyed mapping
	KindReference // Reference to a named type
	KindPtr       // Pointer wrapper
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindStruct:
		return "Struct"
	case KindAlias:
		return "Alias"
	case KindEnum:
		return "Enum"
	case KindPrimitive:
		return "Primitive"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindReference:
		return "Reference"
	case KindPtr:
		return "Ptr"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// TypeName returns the identity of a named type.
	// Returns zero value for expression types.
	TypeName() GoIdentifier

	// Doc returns associated documentation.
	// Returns zero value for expression types.
	Doc() Documentation

	sealed()
}

// exprBase provides zero-value implementations of TypeDescriptor methods
// for expression descriptors, which have no name or documentation.
type exprBase struct{}

func (exprBase) TypeName() GoIdentifier { return GoIdentifier{} }
func (exprBase) Doc() Documentation     { return Documentation{} }
func (exprBase) sealed()                {}
