// Package provider implements input providers for extracting type information
// from Go code. Providers convert Go types into the ir catalog the schema
// registry consumes.
package provider

import (
	"context"
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/naming"
)

// Enum is implemented by named non-struct types whose values form a closed
// set. The reflection provider describes such types as enums.
//
//	type Status string
//
//	func (Status) EnumValues() []any { return []any{StatusActive, StatusGone} }
type Enum interface {
	EnumValues() []any
}

var (
	enumType          = reflect.TypeOf((*Enum)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// ReflectionProvider extracts types using runtime reflection.
// Reflection cannot see doc comments; descriptions come from `doc` tags.
// Prefer SourceProvider when the source is available.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based type extraction.
type ReflectionInputOptions struct {
	// RootTypes are the types to extract, specified as reflect.Type values.
	RootTypes []reflect.Type
}

// BuildCatalog extracts the root types and everything they reach.
func (p *ReflectionProvider) BuildCatalog(ctx context.Context, opts ReflectionInputOptions) (*ir.Catalog, error) {
	if len(opts.RootTypes) == 0 {
		return nil, fmt.Errorf("no root types provided")
	}

	b := &reflectionCatalogBuilder{
		catalog:     &ir.Catalog{},
		visited:     make(map[reflect.Type]bool),
		anonStructs: make(map[reflect.Type]string),
		typeNames:   make(map[string]bool),
	}

	for _, t := range opts.RootTypes {
		if t == nil {
			continue
		}
		if err := b.extractType(ctx, t); err != nil {
			return nil, err
		}
	}

	return b.catalog, nil
}

// ExprOf returns the type expression a field of type t would carry in a
// catalog built by either provider: named types become references, and
// everything else is described inline.
func ExprOf(t reflect.Type) (ir.TypeDescriptor, error) {
	if t == nil {
		return ir.Any(), nil
	}
	var b reflectionCatalogBuilder
	if desc := b.checkSpecialType(t); desc != nil {
		return desc, nil
	}
	if err := b.checkUnsupportedType(t); err != nil {
		return nil, err
	}

	if t.Kind() == reflect.Ptr {
		elem, err := ExprOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil
	}
	if t.Kind() == reflect.Interface {
		return ir.Any(), nil
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return ir.Ref(b.getTypeName(t), t.PkgPath()), nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return ir.Bytes(), nil
		}
		elem, err := ExprOf(t.Elem())
		if err != nil {
			return nil, err
		}
		if t.Kind() == reflect.Array {
			return ir.Array(elem, t.Len()), nil
		}
		return ir.Slice(elem), nil
	case reflect.Map:
		if err := b.validateMapKeyType(t.Key()); err != nil {
			return nil, err
		}
		value, err := ExprOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Map(ir.String(), value), nil
	case reflect.Struct:
		return nil, fmt.Errorf("anonymous struct %s has no name to refer to", t)
	}

	if d := primitiveDescriptor(t.Kind()); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("unsupported type: %s (kind: %s)", t.String(), t.Kind())
}

// reflectionCatalogBuilder maintains state during catalog construction.
type reflectionCatalogBuilder struct {
	catalog     *ir.Catalog
	visited     map[reflect.Type]bool   // Types already processed
	anonStructs map[reflect.Type]string // Anonymous struct -> synthetic name
	typeNames   map[string]bool         // Names claimed so far, pkg-qualified
}

// extractType processes a type and adds it to the catalog.
func (b *reflectionCatalogBuilder) extractType(ctx context.Context, t reflect.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if b.visited[t] {
		return nil
	}
	// Mark before descending so self-referencing types terminate.
	b.visited[t] = true

	if b.checkSpecialType(t) != nil {
		return nil
	}

	named := t.Name() != "" && t.PkgPath() != ""
	if named && isEnum(t) {
		return b.extractEnum(t)
	}

	var err error
	switch t.Kind() {
	case reflect.Struct:
		if t.Name() != "" {
			err = b.extractStruct(ctx, t)
		}
	case reflect.Slice, reflect.Array:
		if named {
			err = b.extractAlias(ctx, t)
		}
		if err == nil {
			err = b.extractType(ctx, t.Elem())
		}
	case reflect.Map:
		if named {
			err = b.extractAlias(ctx, t)
		}
		if err == nil {
			err = b.extractType(ctx, t.Elem())
		}
	default:
		if named {
			err = b.extractAlias(ctx, t)
		}
	}
	if err != nil {
		delete(b.visited, t)
	}
	return err
}

// extractStruct extracts a named struct type.
func (b *reflectionCatalogBuilder) extractStruct(ctx context.Context, t reflect.Type) error {
	name := b.getTypeName(t)
	pkg := t.PkgPath()

	fullName := pkg + "." + name
	if b.typeNames[fullName] {
		return nil
	}
	b.typeNames[fullName] = true

	fields, err := b.collectFields(ctx, t, name, pkg)
	if err != nil {
		return err
	}

	b.catalog.AddType(&ir.StructDescriptor{
		Name:   ir.GoIdentifier{Name: name, Package: pkg},
		Fields: fields,
	})
	return nil
}

// collectFields returns the fields of t in declaration order. Embedded
// structs without a json name have their fields promoted, as encoding/json
// does.
func (b *reflectionCatalogBuilder) collectFields(ctx context.Context, t reflect.Type, structName, pkg string) ([]ir.FieldDescriptor, error) {
	fields := []ir.FieldDescriptor{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			embedded := field.Type
			for embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" && embedded.Kind() == reflect.Struct {
				promoted, err := b.collectFields(ctx, embedded, structName, pkg)
				if err != nil {
					return nil, err
				}
				fields = append(fields, promoted...)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		fd, err := b.buildFieldDescriptor(ctx, field, structName, pkg)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", structName, field.Name, err)
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

// extractAlias extracts a defined non-struct type, e.g. `type Tags []string`.
func (b *reflectionCatalogBuilder) extractAlias(ctx context.Context, t reflect.Type) error {
	name := b.getTypeName(t)
	pkg := t.PkgPath()

	fullName := pkg + "." + name
	if b.typeNames[fullName] {
		return nil
	}
	b.typeNames[fullName] = true

	underlying, err := b.underlyingDescriptor(ctx, t)
	if err != nil {
		return err
	}

	b.catalog.AddType(&ir.AliasDescriptor{
		Name:       ir.GoIdentifier{Name: name, Package: pkg},
		Underlying: underlying,
	})
	return nil
}

// extractEnum describes a type implementing Enum.
func (b *reflectionCatalogBuilder) extractEnum(t reflect.Type) error {
	name := b.getTypeName(t)
	pkg := t.PkgPath()
	b.typeNames[pkg+"."+name] = true

	desc := &ir.EnumDescriptor{Name: ir.GoIdentifier{Name: name, Package: pkg}}
	if t.Implements(textMarshalerType) {
		desc.Encoding = ir.EnumEncodingNames
	}

	for _, v := range enumValues(t) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Type() != t {
			return fmt.Errorf("enum %s: value %v has type %T", name, v, v)
		}
		desc.Members = append(desc.Members, ir.EnumMember{
			Name:  memberName(rv),
			Value: memberValue(rv),
		})
	}

	b.catalog.AddType(desc)
	return nil
}

func isEnum(t reflect.Type) bool {
	if t.Kind() == reflect.Struct || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(enumType) || reflect.PointerTo(t).Implements(enumType)
}

func enumValues(t reflect.Type) []any {
	if t.Implements(enumType) {
		return reflect.Zero(t).Interface().(Enum).EnumValues()
	}
	return reflect.New(t).Interface().(Enum).EnumValues()
}

// memberName is the text a member marshals to, or its String form.
func memberName(v reflect.Value) string {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		if text, err := m.MarshalText(); err == nil {
			return string(text)
		}
	}
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String()
	}
	return fmt.Sprint(v.Interface())
}

func memberValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return fmt.Sprint(v.Interface())
}

// underlyingDescriptor converts the underlying type of a defined type,
// without referring back to the defined type itself.
func (b *reflectionCatalogBuilder) underlyingDescriptor(ctx context.Context, t reflect.Type) (ir.TypeDescriptor, error) {
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return ir.Bytes(), nil
		}
		elem, err := b.typeToDescriptor(ctx, t.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		return ir.Slice(elem), nil
	case reflect.Array:
		elem, err := b.typeToDescriptor(ctx, t.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		return ir.Array(elem, t.Len()), nil
	case reflect.Map:
		if err := b.validateMapKeyType(t.Key()); err != nil {
			return nil, err
		}
		value, err := b.typeToDescriptor(ctx, t.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		return ir.Map(ir.String(), value), nil
	case reflect.Ptr:
		elem, err := b.typeToDescriptor(ctx, t.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil
	}
	if d := primitiveDescriptor(t.Kind()); d != nil {
		return d, nil
	}
	if t.Kind() == reflect.Interface {
		return ir.Any(), nil
	}
	return nil, fmt.Errorf("unsupported type: %s (kind: %s)", t.String(), t.Kind())
}

// buildFieldDescriptor creates a FieldDescriptor from a reflect.StructField.
// parentStructName names anonymous struct fields.
func (b *reflectionCatalogBuilder) buildFieldDescriptor(ctx context.Context, field reflect.StructField, parentStructName, parentPkg string) (ir.FieldDescriptor, error) {
	tags := ParseFieldTags(field.Name, field.Tag)

	fd := ir.FieldDescriptor{
		Name:          field.Name,
		JSONName:      tags.JSONName,
		Optional:      tags.Optional,
		Required:      tags.Required,
		ReadOnly:      tags.ReadOnly,
		Skip:          tags.Skip,
		ValidateTag:   field.Tag.Get("validate"),
		RawTags:       tags.Raw,
		Documentation: tags.Documentation(),
	}
	if fd.Skip {
		// Ignored fields keep their flag but need no type.
		return fd, nil
	}

	fieldType, err := b.typeToDescriptor(ctx, field.Type, parentStructName+"_"+field.Name, parentPkg)
	if err != nil {
		return ir.FieldDescriptor{}, err
	}
	fd.Type = fieldType
	return fd, nil
}

// typeToDescriptor converts a reflect.Type to a TypeDescriptor, extracting
// any named type it reaches. parentName names anonymous structs.
func (b *reflectionCatalogBuilder) typeToDescriptor(ctx context.Context, t reflect.Type, parentName, parentPkg string) (ir.TypeDescriptor, error) {
	if desc := b.checkSpecialType(t); desc != nil {
		return desc, nil
	}

	if err := b.checkUnsupportedType(t); err != nil {
		return nil, err
	}

	// Named non-struct types (enums, defined slices, maps, scalars).
	if t.Name() != "" && t.PkgPath() != "" && t.Kind() != reflect.Struct && t.Kind() != reflect.Interface {
		if err := b.extractType(ctx, t); err != nil {
			return nil, err
		}
		return ir.Ref(b.getTypeName(t), t.PkgPath()), nil
	}

	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return ir.Bytes(), nil
		}
		elem, err := b.typeToDescriptor(ctx, t.Elem(), parentName, parentPkg)
		if err != nil {
			return nil, err
		}
		return ir.Slice(elem), nil

	case reflect.Array:
		elem, err := b.typeToDescriptor(ctx, t.Elem(), parentName, parentPkg)
		if err != nil {
			return nil, err
		}
		return ir.Array(elem, t.Len()), nil

	case reflect.Map:
		if err := b.validateMapKeyType(t.Key()); err != nil {
			return nil, err
		}
		value, err := b.typeToDescriptor(ctx, t.Elem(), parentName, parentPkg)
		if err != nil {
			return nil, err
		}
		return ir.Map(ir.String(), value), nil

	case reflect.Ptr:
		elem, err := b.typeToDescriptor(ctx, t.Elem(), parentName, parentPkg)
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil

	case reflect.Struct:
		if t.Name() == "" {
			return b.handleAnonymousStruct(ctx, t, parentName, parentPkg)
		}
		if err := b.extractType(ctx, t); err != nil {
			return nil, err
		}
		return ir.Ref(b.getTypeName(t), t.PkgPath()), nil

	case reflect.Interface:
		typeName := t.String()
		b.addWarning("INTERFACE_TYPE", fmt.Sprintf("Interface type %s mapped to 'any'", typeName), typeName)
		return ir.Any(), nil
	}

	if d := primitiveDescriptor(t.Kind()); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("unsupported type: %s (kind: %s)", t.String(), t.Kind())
}

// primitiveDescriptor maps a scalar kind. Returns nil for other kinds.
func primitiveDescriptor(k reflect.Kind) ir.TypeDescriptor {
	switch k {
	case reflect.Bool:
		return ir.Bool()
	case reflect.Int:
		return ir.Int(0)
	case reflect.Int8:
		return ir.Int(8)
	case reflect.Int16:
		return ir.Int(16)
	case reflect.Int32:
		return ir.Int(32)
	case reflect.Int64:
		return ir.Int(64)
	case reflect.Uint, reflect.Uintptr:
		return ir.Uint(0)
	case reflect.Uint8:
		return ir.Uint(8)
	case reflect.Uint16:
		return ir.Uint(16)
	case reflect.Uint32:
		return ir.Uint(32)
	case reflect.Uint64:
		return ir.Uint(64)
	case reflect.Float32:
		return ir.Float(32)
	case reflect.Float64:
		return ir.Float(64)
	case reflect.String:
		return ir.String()
	}
	return nil
}

// checkSpecialType checks for types with dedicated descriptors.
func (b *reflectionCatalogBuilder) checkSpecialType(t reflect.Type) ir.TypeDescriptor {
	switch {
	case t.PkgPath() == "time" && t.Name() == "Time":
		return ir.Time()
	case t.PkgPath() == "time" && t.Name() == "Duration":
		return ir.Duration()
	case t.PkgPath() == "encoding/json" && t.Name() == "Number":
		return ir.String()
	case t.PkgPath() == "encoding/json" && t.Name() == "RawMessage":
		return ir.Any()
	case t.Kind() == reflect.Interface && t.NumMethod() == 0:
		return ir.Any()
	case t.Kind() == reflect.Struct && t.NumField() == 0 && t.Name() == "":
		return ir.Empty()
	case t.Kind() == reflect.Struct && t.Implements(textMarshalerType):
		// Structs that marshal as text (netip.Addr, uuid.UUID, ...) are strings.
		return ir.String()
	}
	return nil
}

// checkUnsupportedType returns an error if the type has no JSON form.
func (b *reflectionCatalogBuilder) checkUnsupportedType(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Chan:
		return fmt.Errorf("unsupported type: chan %s", t.Elem())
	case reflect.Complex64:
		return fmt.Errorf("unsupported type: complex64")
	case reflect.Complex128:
		return fmt.Errorf("unsupported type: complex128")
	case reflect.Func:
		return fmt.Errorf("unsupported type: func")
	case reflect.UnsafePointer:
		return fmt.Errorf("unsupported type: unsafe.Pointer")
	}
	return nil
}

// validateMapKeyType validates that the map key type serializes as a string.
func (b *reflectionCatalogBuilder) validateMapKeyType(t reflect.Type) error {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return nil
	}
	if t.Implements(textMarshalerType) {
		return nil
	}
	return fmt.Errorf("unsupported map key type: %s", t)
}

// handleAnonymousStruct extracts an anonymous struct under a synthetic name.
func (b *reflectionCatalogBuilder) handleAnonymousStruct(ctx context.Context, t reflect.Type, parentName, parentPkg string) (ir.TypeDescriptor, error) {
	if syntheticName, exists := b.anonStructs[t]; exists {
		return ir.Ref(syntheticName, parentPkg), nil
	}

	if parentName == "" {
		return nil, fmt.Errorf("cannot generate synthetic name for anonymous struct without parent context")
	}

	syntheticName := parentName
	fullName := parentPkg + "." + syntheticName
	if b.typeNames[fullName] {
		return nil, fmt.Errorf("name collision: synthetic name %s already exists", fullName)
	}
	b.typeNames[fullName] = true
	b.anonStructs[t] = syntheticName

	fields, err := b.collectFields(ctx, t, syntheticName, parentPkg)
	if err != nil {
		return nil, err
	}
	b.catalog.AddType(&ir.StructDescriptor{
		Name:   ir.GoIdentifier{Name: syntheticName, Package: parentPkg},
		Fields: fields,
	})
	return ir.Ref(syntheticName, parentPkg), nil
}

// getTypeName returns the name for a type, sanitizing generic instantiations.
func (b *reflectionCatalogBuilder) getTypeName(t reflect.Type) string {
	return naming.SanitizeTypeName(t.Name())
}

func (b *reflectionCatalogBuilder) addWarning(code, message, typeName string) {
	b.catalog.AddWarning(ir.Warning{
		Code:     code,
		Message:  message,
		TypeName: typeName,
	})
}
