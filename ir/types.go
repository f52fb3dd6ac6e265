// Package ir defines the type description model consumed by the schema registry.
// Providers (reflection, go/packages source analysis, YAML manifests) translate
// their own notion of a type into these descriptors; the registry never looks
// at reflect.Type or go/types directly.
package ir

// GoIdentifier is the identity of a named type.
// Two descriptors with equal identifiers describe the same type.
type GoIdentifier struct {
	// Name is the sanitized type name, always a valid Go identifier.
	// Generic instantiations use synthetic names like "Page_User".
	Name string

	// Package is the fully qualified package path.
	// Empty for builtin and manifest-declared types.
	Package string
}

// IsZero returns true if the identifier is empty.
func (id GoIdentifier) IsZero() bool {
	return id.Name == "" && id.Package == ""
}

// String returns "pkg.Name", or just Name when there is no package.
func (id GoIdentifier) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// Documentation holds documentation text for a type or field.
type Documentation struct {
	// Summary is the first line, used as the schema description.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string

	// Deprecated is non-nil if the symbol is marked deprecated.
	// Deprecated fields are treated as obsolete and left out of definitions.
	Deprecated *string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Warning represents a non-fatal issue encountered while describing types.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}

// PackageInfo describes the Go package a catalog was built from.
type PackageInfo struct {
	Path string
	Name string
}
