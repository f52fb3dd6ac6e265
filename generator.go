// Package swaggen generates Swagger 2.0 documents from Go types or YAML
// manifests.
//
// Describe operations with Go types and write the document:
//
//	swaggen.FromOperations(
//	    swaggen.Operation{
//	        ID: "listPets", Method: "GET", Path: "/pets",
//	        Params: []swaggen.Param{swaggen.Query("", PetFilter{})},
//	    },
//	).Title("Pets").ToDir(ctx, "./api")
//
// Struct query inputs flatten to one query parameter per leaf field
// ("owner.email"), and named struct types become shared definitions.
package swaggen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"

	"github.com/broady/swaggen/export"
	"github.com/broady/swaggen/ir"
	"github.com/broady/swaggen/manifest"
	"github.com/broady/swaggen/provider"
	"github.com/broady/swaggen/registry"
	"github.com/broady/swaggen/schema"
	"github.com/broady/swaggen/sink"
)

// Generator provides a fluent API for document generation.
// Create with FromOperations, FromTypes, FromDescriptors or FromManifest
// and configure with method chaining.
type Generator struct {
	ops   []Operation
	types []any // Definitions without operations

	// Pre-described input, bypassing the providers.
	catalog *ir.Catalog
	descs   []registry.OperationDescription

	cfg Config
}

// FromOperations creates a Generator for operations whose inputs are Go types.
func FromOperations(ops ...Operation) *Generator {
	return &Generator{ops: ops}
}

// FromTypes creates a Generator that emits definitions for the given types
// without any operation. Pass zero values of the types.
func FromTypes(types ...any) *Generator {
	return &Generator{types: types}
}

// FromDescriptors creates a Generator over a catalog and operations that
// were already described, e.g. by a custom provider. Every struct type in
// the catalog becomes a definition.
func FromDescriptors(catalog *ir.Catalog, ops ...registry.OperationDescription) *Generator {
	if catalog == nil {
		catalog = &ir.Catalog{}
	}
	return &Generator{catalog: catalog, descs: ops}
}

// FromManifest creates a Generator for the YAML manifest at path.
func FromManifest(path string) *Generator {
	return &Generator{cfg: Config{Manifest: path}}
}

// WithConfig replaces the configuration. Sources set by the constructor
// are kept; a manifest path in the constructor wins over cfg.Manifest.
func (g *Generator) WithConfig(cfg Config) *Generator {
	if g.cfg.Manifest != "" {
		cfg.Manifest = g.cfg.Manifest
	}
	g.cfg = cfg
	return g
}

// AddTypes adds types to emit as definitions even when no operation uses them.
func (g *Generator) AddTypes(types ...any) *Generator {
	g.types = append(g.types, types...)
	return g
}

// Provider sets the type extraction strategy.
// Valid values: "reflection" (default), "source".
func (g *Generator) Provider(p string) *Generator {
	g.cfg.Provider = p
	return g
}

// Packages sets the Go packages the source provider analyzes.
func (g *Generator) Packages(pkgs ...string) *Generator {
	g.cfg.Packages = append(g.cfg.Packages, pkgs...)
	return g
}

// SchemaIDs selects definition naming. Valid values: "short" (default), "full".
func (g *Generator) SchemaIDs(mode string) *Generator {
	g.cfg.SchemaIDs = mode
	return g
}

// EnumNames emits every enum by member name.
func (g *Generator) EnumNames() *Generator {
	g.cfg.EnumNames = true
	return g
}

// CamelCaseEnums camel-cases the member names of name-encoded enums.
func (g *Generator) CamelCaseEnums() *Generator {
	g.cfg.CamelCaseEnums = true
	return g
}

// Title sets the document title.
func (g *Generator) Title(s string) *Generator {
	g.cfg.Title = s
	return g
}

// Version sets the API version.
func (g *Generator) Version(s string) *Generator {
	g.cfg.Version = s
	return g
}

// Description sets the document description.
func (g *Generator) Description(s string) *Generator {
	g.cfg.Description = s
	return g
}

// Formats sets the output encodings.
func (g *Generator) Formats(formats ...export.Format) *Generator {
	g.cfg.Formats = nil
	for _, f := range formats {
		g.cfg.Formats = append(g.cfg.Formats, string(f))
	}
	return g
}

// FileName sets the base name of written documents.
func (g *Generator) FileName(name string) *Generator {
	g.cfg.FileName = name
	return g
}

// WithOpenAPI3 also writes the document converted to OpenAPI 3.
func (g *Generator) WithOpenAPI3() *Generator {
	g.cfg.OpenAPI3 = true
	return g
}

// ValidateOutput checks the document with the OpenAPI validator before
// writing it.
func (g *Generator) ValidateOutput() *Generator {
	g.cfg.ValidateOutput = true
	return g
}

// Logger sets the logger for progress output.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// GenerateResult describes a generation run.
type GenerateResult struct {
	// Document is the generated definitions and operations.
	Document *schema.Document

	// Swagger is Document as a Swagger 2.0 document.
	Swagger *openapi2.T

	// Files lists the written files.
	Files []OutputFile

	// Warnings contains non-fatal issues reported while describing types.
	Warnings []ir.Warning
}

// OutputFile describes a written file.
type OutputFile struct {
	// Path is the relative path of the file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// ToDir writes the documents to dir. An empty dir uses Config.OutDir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	if dir == "" {
		dir = g.cfg.OutDir
	}
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	return g.ToSink(ctx, sink.NewFilesystemSink(dir))
}

// Generate writes the documents to a fresh MemorySink and returns it along
// with the result. Use ToDir to write files to disk instead.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, *sink.MemorySink, error) {
	mem := sink.NewMemorySink()
	result, err := g.ToSink(ctx, mem)
	if err != nil {
		return nil, nil, err
	}
	return result, mem, nil
}

// Document builds the definitions and operations without encoding them.
func (g *Generator) Document(ctx context.Context) (*schema.Document, []ir.Warning, error) {
	cfg := applyConfigDefaults(&g.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return g.build(ctx, cfg)
}

// ToSink writes one document per configured format to out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*GenerateResult, error) {
	cfg := applyConfigDefaults(&g.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	formats, err := cfg.formats()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger

	doc, warnings, err := g.build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn("type warning",
			slog.String("code", w.Code),
			slog.String("type", w.TypeName),
			slog.String("message", w.Message))
	}

	sw, err := export.Swagger(doc, export.Info{
		Title:       cfg.Title,
		Version:     cfg.Version,
		Description: cfg.Description,
	})
	if err != nil {
		return nil, err
	}
	if cfg.ValidateOutput {
		if err := export.Validate(ctx, sw); err != nil {
			return nil, err
		}
	}

	type document struct {
		suffix string
		value  any
	}
	documents := []document{{"", sw}}
	if cfg.OpenAPI3 {
		v3, err := export.OpenAPI3(sw)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document{".openapi3", v3})
	}

	result := &GenerateResult{Document: doc, Swagger: sw, Warnings: warnings}
	for _, d := range documents {
		for _, f := range formats {
			data, err := export.Encode(d.value, f)
			if err != nil {
				return nil, err
			}
			path := cfg.FileName + d.suffix + f.Ext()
			if err := out.WriteFile(ctx, path, data); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			result.Files = append(result.Files, OutputFile{Path: path, Size: int64(len(data))})
		}
	}

	logger.Info("generated swagger document",
		slog.Int("definitions", len(doc.Definitions)),
		slog.Int("operations", len(doc.Operations)),
		slog.Int("files", len(result.Files)))
	return result, nil
}

// build runs the providers and the registry.
func (g *Generator) build(ctx context.Context, cfg *Config) (*schema.Document, []ir.Warning, error) {
	catalog, roots, descs, err := g.describe(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("invalid type catalog: %s", ir.JoinErrors(errs))
	}

	reg := registry.New(catalog, registry.Options{
		SchemaID:       cfg.schemaID(),
		EnumNames:      cfg.EnumNames,
		CamelCaseEnums: cfg.CamelCaseEnums,
		Logger:         cfg.Logger,
	})
	for _, td := range roots {
		if _, err := reg.GetOrRegister(td); err != nil {
			return nil, nil, err
		}
	}

	ops := make([]schema.Operation, 0, len(descs))
	for _, d := range descs {
		op, err := reg.DescribeOperation(d)
		if err != nil {
			return nil, nil, err
		}
		ops = append(ops, op)
	}
	return reg.Document(ops), catalog.Warnings, nil
}

// describe produces the catalog, the definition-only roots and the
// operation descriptions from whichever source the Generator was built with.
func (g *Generator) describe(ctx context.Context, cfg *Config) (*ir.Catalog, []ir.TypeDescriptor, []registry.OperationDescription, error) {
	switch {
	case g.catalog != nil:
		return g.catalog, catalogRoots(g.catalog), g.descs, nil
	case cfg.Manifest != "":
		return describeManifest(cfg.Manifest)
	}

	if len(g.ops) == 0 && len(g.types) == 0 {
		return nil, nil, nil, errors.New("nothing to generate: no operations or types")
	}

	var rootTypes []reflect.Type
	var roots []ir.TypeDescriptor
	for _, v := range g.types {
		t := reflect.TypeOf(v)
		if t == nil {
			continue
		}
		td, err := provider.ExprOf(t)
		if err != nil {
			return nil, nil, nil, err
		}
		rootTypes = append(rootTypes, t)
		roots = append(roots, td)
	}

	descs := make([]registry.OperationDescription, 0, len(g.ops))
	for _, op := range g.ops {
		desc := registry.OperationDescription{
			ID:      op.ID,
			Method:  strings.ToUpper(op.Method),
			Path:    op.Path,
			Summary: op.Summary,
		}
		for _, p := range op.Params {
			pd := registry.ParameterDescription{Name: p.Name, In: p.In, Description: p.Description}
			if p.Type != nil {
				td, err := provider.ExprOf(p.Type)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("operation %s parameter %q: %w", op.ID, p.Name, err)
				}
				rootTypes = append(rootTypes, p.Type)
				pd.Descriptor = &registry.ParameterDescriptor{Type: td, Optional: p.Optional, Default: p.Default}
			}
			desc.Parameters = append(desc.Parameters, pd)
		}
		descs = append(descs, desc)
	}

	catalog, err := buildCatalog(ctx, cfg, rootTypes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return catalog, roots, descs, nil
}

func describeManifest(path string) (*ir.Catalog, []ir.TypeDescriptor, []registry.OperationDescription, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, err := m.Catalog()
	if err != nil {
		return nil, nil, nil, err
	}
	descs, err := m.Describe()
	if err != nil {
		return nil, nil, nil, err
	}
	return catalog, catalogRoots(catalog), descs, nil
}

// catalogRoots lists every named type of catalog. Struct types among them
// become definitions even when no operation refers to them.
func catalogRoots(catalog *ir.Catalog) []ir.TypeDescriptor {
	roots := make([]ir.TypeDescriptor, 0, len(catalog.Types))
	for _, t := range catalog.Types {
		roots = append(roots, t)
	}
	return roots
}

// buildCatalog runs the configured provider over the root types.
func buildCatalog(ctx context.Context, cfg *Config, rootTypes []reflect.Type) (*ir.Catalog, error) {
	switch cfg.Provider {
	case "reflection":
		if len(rootTypes) == 0 {
			return &ir.Catalog{}, nil
		}
		p := &provider.ReflectionProvider{}
		return p.BuildCatalog(ctx, provider.ReflectionInputOptions{RootTypes: rootTypes})
	case "source":
		names, pkgs, err := collectRootTypeNames(rootTypes)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return &ir.Catalog{}, nil
		}
		if len(cfg.Packages) > 0 {
			pkgs = cfg.Packages
		}
		p := &provider.SourceProvider{}
		return p.BuildCatalog(ctx, provider.SourceInputOptions{
			Packages:  pkgs,
			RootTypes: names,
			Dir:       cfg.Dir,
		})
	}
	return nil, fmt.Errorf("unknown provider: %q (expected \"reflection\" or \"source\")", cfg.Provider)
}

// collectRootTypeNames finds the named types reachable through pointers
// and collections of rootTypes, for lookup by the source provider.
func collectRootTypeNames(rootTypes []reflect.Type) (names, pkgs []string, err error) {
	seenName := make(map[string]bool)
	seenPkg := make(map[string]bool)

	var visit func(t reflect.Type) error
	visit = func(t reflect.Type) error {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			return visit(t.Elem())
		case reflect.Map:
			return visit(t.Elem())
		}
		if t.Name() == "" || t.PkgPath() == "" {
			return nil
		}
		td, err := provider.ExprOf(t)
		if err != nil {
			return err
		}
		if _, isRef := td.(*ir.ReferenceDescriptor); !isRef {
			// time.Time and friends have built-in descriptors.
			return nil
		}
		if strings.Contains(t.Name(), "[") {
			return fmt.Errorf("generic type %s cannot be a root type for the source provider; use the reflection provider", t)
		}
		if !seenName[t.Name()] {
			seenName[t.Name()] = true
			names = append(names, t.Name())
		}
		if !seenPkg[t.PkgPath()] {
			seenPkg[t.PkgPath()] = true
			pkgs = append(pkgs, t.PkgPath())
		}
		return nil
	}

	for _, t := range rootTypes {
		if err := visit(t); err != nil {
			return nil, nil, err
		}
	}
	sort.Strings(names)
	return names, pkgs, nil
}
