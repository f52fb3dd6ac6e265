package ir

// AliasDescriptor represents a defined type over a non-struct type,
// e.g. `type Tags []string` or `type Tree map[string]Tree`.
type AliasDescriptor struct {
	Name GoIdentifier

	// Underlying is the aliased type expression.
	Underlying TypeDescriptor

	Documentation Documentation
}

// Kind returns KindAlias.
func (d *AliasDescriptor) Kind() DescriptorKind { return KindAlias }

// TypeName returns the alias's name.
func (d *AliasDescriptor) TypeName() GoIdentifier { return d.Name }

// Doc returns the alias's documentation.
func (d *AliasDescriptor) Doc() Documentation { return d.Documentation }

func (*AliasDescriptor) sealed() {}
