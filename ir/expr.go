package ir

// ArrayDescriptor represents an ordered collection (slice or fixed-length array).
type ArrayDescriptor struct {
	exprBase

	// Element is the element type. A nil Element means "untyped".
	Element TypeDescriptor

	// Length is 0 for slices, or >0 for fixed-length arrays.
	Length int
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() DescriptorKind { return KindArray }

// Slice returns an ArrayDescriptor for a slice type.
func Slice(element TypeDescriptor) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element}
}

// Array returns an ArrayDescriptor for a fixed-length array.
func Array(element TypeDescriptor, length int) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element, Length: length}
}

// MapDescriptor represents a mapping with arbitrary keys. Keys always
// serialize as JSON strings, so only the value type matters to schemas.
type MapDescriptor struct {
	exprBase

	Key TypeDescriptor

	// Value is the value type. A nil Value means "untyped".
	Value TypeDescriptor
}

// Kind returns KindMap.
func (d *MapDescriptor) Kind() DescriptorKind { return KindMap }

// Map returns a MapDescriptor for a map type.
func Map(key, value TypeDescriptor) *MapDescriptor {
	return &MapDescriptor{Key: key, Value: value}
}

// ReferenceDescriptor represents a reference to a named type in the catalog.
type ReferenceDescriptor struct {
	exprBase

	Target GoIdentifier
}

// Kind returns KindReference.
func (d *ReferenceDescriptor) Kind() DescriptorKind { return KindReference }

// Ref returns a ReferenceDescriptor for a named type.
func Ref(name string, pkg string) *ReferenceDescriptor {
	return &ReferenceDescriptor{Target: GoIdentifier{Name: name, Package: pkg}}
}

// PtrDescriptor represents a pointer (*T). Pointers only change
// nullability, which Swagger 2.0 cannot express.
type PtrDescriptor struct {
	exprBase

	Element TypeDescriptor
}

// Kind returns KindPtr.
func (d *PtrDescriptor) Kind() DescriptorKind { return KindPtr }

// Ptr returns a PtrDescriptor for a pointer type.
func Ptr(element TypeDescriptor) *PtrDescriptor {
	return &PtrDescriptor{Element: element}
}

// Deref strips any number of pointer wrappers.
func Deref(td TypeDescriptor) TypeDescriptor {
	for {
		p, ok := td.(*PtrDescriptor)
		if !ok {
			return td
		}
		td = p.Element
	}
}
