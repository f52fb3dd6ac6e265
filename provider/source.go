package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/naming"
)

// SourceProvider extracts types by analyzing Go source code. Unlike
// ReflectionProvider it sees doc comments and const-group enums.
type SourceProvider struct{}

// SourceInputOptions configures source-based type extraction.
type SourceInputOptions struct {
	// Packages are the Go package paths (or patterns) to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "User", "CreateRequest").
	// If empty, all exported types in the packages are extracted.
	RootTypes []string

	// Dir is the directory package patterns are resolved in.
	// Default: the current directory.
	Dir string
}

// BuildCatalog analyzes source code and returns the catalog of every type
// reachable from RootTypes.
func (p *SourceProvider) BuildCatalog(ctx context.Context, opts SourceInputOptions) (*ir.Catalog, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	b := &catalogBuilder{
		ctx:        ctx,
		pkgs:       pkgs,
		catalog:    &ir.Catalog{},
		namedTypes: make(map[string]bool),
	}

	// packages.Load returns packages in dependency order, not input order.
	mainPkg := pkgs[0]
	for _, pkg := range pkgs {
		if pkg.PkgPath == opts.Packages[0] {
			mainPkg = pkg
			break
		}
	}
	b.catalog.Package = ir.PackageInfo{Path: mainPkg.PkgPath, Name: mainPkg.Name}

	if len(opts.RootTypes) > 0 {
		for _, rootName := range opts.RootTypes {
			if err := b.extractRootType(rootName); err != nil {
				return nil, fmt.Errorf("failed to extract root type %s: %w", rootName, err)
			}
		}
	} else if err := b.extractAllExportedTypes(); err != nil {
		return nil, fmt.Errorf("failed to extract exported types: %w", err)
	}

	return b.catalog, nil
}

// catalogBuilder accumulates types and manages the extraction process.
type catalogBuilder struct {
	ctx        context.Context
	pkgs       []*packages.Package
	catalog    *ir.Catalog
	namedTypes map[string]bool // key: pkgPath.Name, set before extraction
}

// enumConstant is a const declaration of an enum's type.
type enumConstant struct {
	obj   *types.Const
	value constant.Value
}

// extractRootType finds and extracts a named type by name.
func (b *catalogBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		obj := pkg.Types.Scope().Lookup(name)
		if typeName, ok := obj.(*types.TypeName); ok {
			return b.extractNamedType(typeName)
		}
	}
	return fmt.Errorf("type %s not found in any package", name)
}

// extractAllExportedTypes extracts all exported types from all packages.
func (b *catalogBuilder) extractAllExportedTypes() error {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}
			typeName, ok := obj.(*types.TypeName)
			if !ok || typeName.IsAlias() {
				continue
			}
			if err := b.extractNamedType(typeName); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractNamedType extracts a named type and everything it references.
func (b *catalogBuilder) extractNamedType(tn *types.TypeName) error {
	named, ok := types.Unalias(tn.Type()).(*types.Named)
	if !ok {
		return nil
	}
	return b.extractNamed(named)
}

func (b *catalogBuilder) extractNamed(named *types.Named) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	if b.handleSpecialType(named) != nil {
		return nil
	}

	key := b.typeKey(named)
	if b.namedTypes[key] {
		return nil
	}
	b.namedTypes[key] = true

	obj := named.Obj()
	id := ir.GoIdentifier{Name: b.typeName(named), Package: pkgPath(obj)}
	doc := b.extractDocumentation(obj)

	if consts := b.enumConstants(named); len(consts) > 0 {
		b.catalog.AddType(b.buildEnumDescriptor(id, named, consts, doc))
		return nil
	}

	switch underlying := named.Underlying().(type) {
	case *types.Struct:
		desc, err := b.buildStructDescriptor(id, named, underlying, doc)
		if err != nil {
			return err
		}
		b.catalog.AddType(desc)

	case *types.Interface:
		b.catalog.AddWarning(ir.Warning{
			Code:     "INTERFACE_TYPE",
			Message:  fmt.Sprintf("interface type %s mapped to 'any'", obj.Name()),
			TypeName: obj.Name(),
		})
		b.catalog.AddType(&ir.AliasDescriptor{Name: id, Underlying: ir.Any(), Documentation: doc})

	default:
		desc, err := b.convertType(underlying, id.Name)
		if err != nil {
			return fmt.Errorf("type %s: %w", id, err)
		}
		b.catalog.AddType(&ir.AliasDescriptor{Name: id, Underlying: desc, Documentation: doc})
	}
	return nil
}

// typeKey generates a unique key for a named type, including type arguments.
func (b *catalogBuilder) typeKey(named *types.Named) string {
	return types.TypeString(named, nil)
}

// typeName returns the catalog name of a named type. Generic instantiations
// get the same synthetic names the reflection provider uses.
func (b *catalogBuilder) typeName(named *types.Named) string {
	name := named.Obj().Name()
	args := named.TypeArgs()
	if args == nil || args.Len() == 0 {
		return name
	}
	parts := make([]string, args.Len())
	for i := 0; i < args.Len(); i++ {
		parts[i] = types.TypeString(args.At(i), nil)
	}
	return naming.SanitizeTypeName(name + "[" + strings.Join(parts, ",") + "]")
}

func pkgPath(obj types.Object) string {
	if obj == nil || obj.Pkg() == nil {
		return ""
	}
	return obj.Pkg().Path()
}

// convertType converts a Go type to an ir.TypeDescriptor, extracting any
// named type it references. synthetic names anonymous structs.
func (b *catalogBuilder) convertType(t types.Type, synthetic string) (ir.TypeDescriptor, error) {
	t = types.Unalias(t)
	if desc := b.handleSpecialType(t); desc != nil {
		return desc, nil
	}

	switch typ := t.(type) {
	case *types.Basic:
		return b.convertBasicType(typ), nil

	case *types.Named:
		if err := b.extractNamed(typ); err != nil {
			return nil, err
		}
		return ir.Ref(b.typeName(typ), pkgPath(typ.Obj())), nil

	case *types.Pointer:
		elem, err := b.convertType(typ.Elem(), synthetic)
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil

	case *types.Slice:
		elem, err := b.convertType(typ.Elem(), synthetic)
		if err != nil {
			return nil, err
		}
		return ir.Slice(elem), nil

	case *types.Array:
		elem, err := b.convertType(typ.Elem(), synthetic)
		if err != nil {
			return nil, err
		}
		return ir.Array(elem, int(typ.Len())), nil

	case *types.Map:
		if !b.isValidMapKey(typ.Key()) {
			return nil, fmt.Errorf("unsupported map key type: %s", typ.Key())
		}
		value, err := b.convertType(typ.Elem(), synthetic)
		if err != nil {
			return nil, err
		}
		return ir.Map(ir.String(), value), nil

	case *types.Interface:
		if !typ.Empty() {
			b.catalog.AddWarning(ir.Warning{
				Code:    "INTERFACE_TYPE",
				Message: fmt.Sprintf("interface type %s mapped to 'any'", typ.String()),
			})
		}
		return ir.Any(), nil

	case *types.Struct:
		if typ.NumFields() == 0 {
			return ir.Empty(), nil
		}
		return b.anonymousStruct(typ, synthetic)

	case *types.TypeParam:
		return ir.Any(), nil

	case *types.Chan, *types.Signature:
		return nil, fmt.Errorf("unsupported type: %s", t.String())
	}
	return nil, fmt.Errorf("unknown type: %T", t)
}

// anonymousStruct extracts an anonymous struct under a synthetic name,
// e.g. "User_Address" for field Address of User.
func (b *catalogBuilder) anonymousStruct(st *types.Struct, name string) (ir.TypeDescriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("cannot generate synthetic name for anonymous struct without parent context")
	}
	pkg := b.catalog.Package.Path
	key := pkg + "." + name
	if b.namedTypes[key] {
		return nil, fmt.Errorf("name collision: synthetic name %s already exists", key)
	}
	b.namedTypes[key] = true

	fields, err := b.collectFields(st, name, nil)
	if err != nil {
		return nil, err
	}
	b.catalog.AddType(&ir.StructDescriptor{
		Name:   ir.GoIdentifier{Name: name, Package: pkg},
		Fields: fields,
	})
	return ir.Ref(name, pkg), nil
}

// handleSpecialType handles types with dedicated descriptors.
func (b *catalogBuilder) handleSpecialType(t types.Type) ir.TypeDescriptor {
	switch typ := t.(type) {
	case *types.Slice:
		if basic, ok := typ.Elem().(*types.Basic); ok && basic.Kind() == types.Uint8 {
			return ir.Bytes()
		}

	case *types.Named:
		obj := typ.Obj()
		if obj == nil || obj.Pkg() == nil {
			return nil
		}
		switch pkgPath, name := obj.Pkg().Path(), obj.Name(); {
		case pkgPath == "time" && name == "Time":
			return ir.Time()
		case pkgPath == "time" && name == "Duration":
			return ir.Duration()
		case pkgPath == "encoding/json" && name == "Number":
			return ir.String()
		case pkgPath == "encoding/json" && name == "RawMessage":
			return ir.Any()
		}
		if _, isStruct := typ.Underlying().(*types.Struct); isStruct {
			if hasMethod(typ, "MarshalText") {
				return ir.String()
			}
			if hasMethod(typ, "MarshalJSON") {
				b.catalog.AddWarning(ir.Warning{
					Code:     "CUSTOM_MARSHALER",
					Message:  fmt.Sprintf("type %s implements json.Marshaler, mapped to 'any'", obj.Name()),
					TypeName: obj.Name(),
				})
				return ir.Any()
			}
		}
	}
	return nil
}

// hasMethod reports whether named or *named has a method
// name() ([]byte, error).
func hasMethod(named *types.Named, name string) bool {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(named), true, named.Obj().Pkg(), name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 2
}

// isValidMapKey checks if a type is a valid JSON map key.
func (b *catalogBuilder) isValidMapKey(t types.Type) bool {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		kind := typ.Kind()
		return kind == types.String || kind >= types.Int && kind <= types.Uint64
	case *types.Named:
		if hasMethod(typ, "MarshalText") {
			return true
		}
		return b.isValidMapKey(typ.Underlying())
	}
	return false
}

// convertBasicType converts a Go basic type to an ir primitive.
func (b *catalogBuilder) convertBasicType(basic *types.Basic) ir.TypeDescriptor {
	switch basic.Kind() {
	case types.Bool, types.UntypedBool:
		return ir.Bool()
	case types.String, types.UntypedString:
		return ir.String()
	case types.Int, types.UntypedInt:
		return ir.Int(0)
	case types.Int8:
		return ir.Int(8)
	case types.Int16:
		return ir.Int(16)
	case types.Int32, types.UntypedRune:
		return ir.Int(32)
	case types.Int64:
		return ir.Int(64)
	case types.Uint, types.Uintptr:
		return ir.Uint(0)
	case types.Uint8: // types.Byte is an alias for Uint8
		return ir.Uint(8)
	case types.Uint16:
		return ir.Uint(16)
	case types.Uint32:
		return ir.Uint(32)
	case types.Uint64:
		return ir.Uint(64)
	case types.Float32:
		return ir.Float(32)
	case types.Float64, types.UntypedFloat:
		return ir.Float(64)
	}
	return ir.Any()
}

// typeSpec finds the declaration of obj in the loaded syntax trees.
// The returned GenDecl is the enclosing declaration.
func (b *catalogBuilder) typeSpec(obj types.Object) (*ast.GenDecl, *ast.TypeSpec) {
	for _, pkg := range b.pkgs {
		if pkg.Types != obj.Pkg() {
			continue
		}
		pos := obj.Pos()
		for _, file := range pkg.Syntax {
			if file.Pos() > pos || file.End() < pos {
				continue
			}
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok {
					continue
				}
				for _, spec := range gd.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Pos() == pos {
						return gd, ts
					}
				}
			}
		}
	}
	return nil, nil
}

// extractDocumentation extracts documentation for a type declaration.
func (b *catalogBuilder) extractDocumentation(obj types.Object) ir.Documentation {
	gd, ts := b.typeSpec(obj)
	if ts == nil {
		return ir.Documentation{}
	}
	if ts.Doc != nil {
		return parseDocumentation(ts.Doc)
	}
	if len(gd.Specs) == 1 {
		return parseDocumentation(gd.Doc)
	}
	return ir.Documentation{}
}

// fieldDocs maps field names of a struct declaration to their comments.
func (b *catalogBuilder) fieldDocs(obj types.Object) map[string]ir.Documentation {
	_, ts := b.typeSpec(obj)
	if ts == nil {
		return nil
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil
	}
	docs := make(map[string]ir.Documentation)
	for _, f := range st.Fields.List {
		cg := f.Doc
		if cg == nil {
			cg = f.Comment
		}
		if cg == nil {
			continue
		}
		doc := parseDocumentation(cg)
		for _, name := range f.Names {
			docs[name.Name] = doc
		}
	}
	return docs
}

// parseDocumentation parses a comment group into Documentation.
func parseDocumentation(cg *ast.CommentGroup) ir.Documentation {
	if cg == nil {
		return ir.Documentation{}
	}

	text := cg.Text()
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var summary string
	var deprecated *string

	for i, line := range lines {
		if strings.HasPrefix(line, "Deprecated:") {
			msg := strings.TrimSpace(strings.TrimPrefix(line, "Deprecated:"))
			deprecated = &msg
			lines = append(lines[:i], lines[i+1:]...)
			break
		}
	}

	// First non-empty line is the summary
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			summary = trimmed
			break
		}
	}

	return ir.Documentation{
		Summary:    summary,
		Body:       strings.TrimSpace(strings.Join(lines, "\n")),
		Deprecated: deprecated,
	}
}

// enumConstants returns the constants declared with named's type, in
// declaration order. Only defined types over basic types qualify.
func (b *catalogBuilder) enumConstants(named *types.Named) []enumConstant {
	if _, ok := named.Underlying().(*types.Basic); !ok {
		return nil
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []enumConstant
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(cnst.Type(), named) {
			continue
		}
		consts = append(consts, enumConstant{obj: cnst, value: cnst.Val()})
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].obj.Pos() < consts[j].obj.Pos() })
	return consts
}

// buildEnumDescriptor creates an EnumDescriptor from constants.
func (b *catalogBuilder) buildEnumDescriptor(id ir.GoIdentifier, named *types.Named, consts []enumConstant, doc ir.Documentation) *ir.EnumDescriptor {
	desc := &ir.EnumDescriptor{
		Name:          id,
		Documentation: doc,
	}
	if hasMethod(named, "MarshalText") {
		desc.Encoding = ir.EnumEncodingNames
	}
	for _, c := range consts {
		desc.Members = append(desc.Members, ir.EnumMember{
			Name:  c.obj.Name(),
			Value: constantValue(c.value),
		})
	}
	return desc
}

// constantValue converts a constant.Value to string, int64, or float64.
func constantValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Int:
		i64, _ := constant.Int64Val(v)
		return i64
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64
	case constant.Bool:
		return constant.BoolVal(v)
	}
	return v.String()
}

// buildStructDescriptor creates a StructDescriptor from a named struct type.
func (b *catalogBuilder) buildStructDescriptor(id ir.GoIdentifier, named *types.Named, st *types.Struct, doc ir.Documentation) (*ir.StructDescriptor, error) {
	// Field comments live on the generic declaration, not the instance.
	fields, err := b.collectFields(st, id.Name, b.fieldDocs(named.Origin().Obj()))
	if err != nil {
		return nil, err
	}
	return &ir.StructDescriptor{
		Name:          id,
		Fields:        fields,
		Documentation: doc,
	}, nil
}

// collectFields converts the fields of st in declaration order, promoting
// the fields of untagged embedded structs.
func (b *catalogBuilder) collectFields(st *types.Struct, structName string, docs map[string]ir.Documentation) ([]ir.FieldDescriptor, error) {
	fields := []ir.FieldDescriptor{}
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Embedded() {
			name, _, _ := strings.Cut(tag.Get("json"), ",")
			embedded := types.Unalias(field.Type())
			if ptr, ok := embedded.(*types.Pointer); ok {
				embedded = types.Unalias(ptr.Elem())
			}
			if named, ok := embedded.(*types.Named); ok && name == "" {
				if inner, ok := named.Underlying().(*types.Struct); ok && b.handleSpecialType(named) == nil {
					promoted, err := b.collectFields(inner, structName, b.fieldDocs(named.Origin().Obj()))
					if err != nil {
						return nil, err
					}
					fields = append(fields, promoted...)
					continue
				}
			}
		}

		if !field.Exported() {
			continue
		}

		tags := ParseFieldTags(field.Name(), tag)
		fd := ir.FieldDescriptor{
			Name:        field.Name(),
			JSONName:    tags.JSONName,
			Optional:    tags.Optional,
			Required:    tags.Required,
			ReadOnly:    tags.ReadOnly,
			Skip:        tags.Skip,
			ValidateTag: tag.Get("validate"),
			RawTags:     tags.Raw,
		}

		// Comments describe the field unless a doc tag says otherwise.
		fd.Documentation = docs[field.Name()]
		if tags.Description != "" {
			fd.Documentation.Summary = tags.Description
		}
		if tags.Deprecated && fd.Documentation.Deprecated == nil {
			fd.Documentation.Deprecated = tags.Documentation().Deprecated
		}

		if !fd.Skip {
			desc, err := b.convertType(field.Type(), structName+"_"+field.Name())
			if err != nil {
				return nil, fmt.Errorf("failed to convert field %s: %w", field.Name(), err)
			}
			fd.Type = desc
		}
		fields = append(fields, fd)
	}
	return fields, nil
}
