package ir

import "strings"

// Catalog is the set of named types a provider described.
// Expression descriptors (Primitive, Array, Map, ...) appear nested within
// the named types' fields and within parameter descriptors.
type Catalog struct {
	// Package is the source Go package, if the provider knows it.
	Package PackageInfo

	// Types contains named descriptors: Struct, Alias, and Enum.
	// Order is the order in which the provider discovered them.
	Types []TypeDescriptor

	// Warnings contains non-fatal issues encountered while describing types.
	Warnings []Warning

	index map[GoIdentifier]int
}

// AddType adds a named type descriptor to the catalog.
// Adding a second descriptor with the same identity replaces the first.
func (c *Catalog) AddType(t TypeDescriptor) {
	c.reindex()
	name := t.TypeName()
	if i, ok := c.index[name]; ok {
		c.Types[i] = t
		return
	}
	c.index[name] = len(c.Types)
	c.Types = append(c.Types, t)
}

// AddWarning adds a warning to the catalog.
func (c *Catalog) AddWarning(w Warning) {
	c.Warnings = append(c.Warnings, w)
}

// FindType looks up a type by identity. Returns nil if not found.
func (c *Catalog) FindType(name GoIdentifier) TypeDescriptor {
	c.reindex()
	if i, ok := c.index[name]; ok {
		return c.Types[i]
	}
	return nil
}

// reindex rebuilds the lookup index when Types was populated directly.
func (c *Catalog) reindex() {
	if c.index != nil && len(c.index) == len(c.Types) {
		return
	}
	c.index = make(map[GoIdentifier]int, len(c.Types))
	for i, t := range c.Types {
		c.index[t.TypeName()] = i
	}
}

// Validate checks the catalog for structural issues.
// Returns all validation errors found (not just the first).
func (c *Catalog) Validate() []error {
	var errs []error

	seen := make(map[GoIdentifier]bool)
	for _, t := range c.Types {
		name := t.TypeName()
		if name.IsZero() {
			errs = append(errs, &ValidationError{
				Code:    "unnamed_type",
				Message: "catalog contains a " + t.Kind().String() + " descriptor without a name",
			})
			continue
		}
		if seen[name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name.String(),
			})
		}
		seen[name] = true
	}

	for _, t := range c.Types {
		switch d := t.(type) {
		case *StructDescriptor:
			for _, f := range d.Fields {
				errs = append(errs, c.validateReferences(f.Type, seen, d.Name.Name+"."+f.Name)...)
			}
		case *AliasDescriptor:
			errs = append(errs, c.validateReferences(d.Underlying, seen, d.Name.Name)...)
		}
	}
	return errs
}

// validateReferences walks an expression and checks that every reference
// points to a type in the catalog.
func (c *Catalog) validateReferences(td TypeDescriptor, names map[GoIdentifier]bool, context string) []error {
	switch d := td.(type) {
	case *ReferenceDescriptor:
		if !names[d.Target] {
			return []error{&ValidationError{
				Code:    "missing_type_reference",
				Message: context + " references unknown type: " + d.Target.String(),
			}}
		}
	case *ArrayDescriptor:
		return c.validateReferences(d.Element, names, context)
	case *MapDescriptor:
		return c.validateReferences(d.Value, names, context)
	case *PtrDescriptor:
		return c.validateReferences(d.Element, names, context)
	}
	return nil
}

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// JoinErrors renders validation errors as a single message.
func JoinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
