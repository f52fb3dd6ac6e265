package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/broady/swaggen"
	"github.com/broady/swaggen/provider"
	"github.com/broady/swaggen/sink"
)

type Cmd struct {
	Config    string   `help:"YAML configuration file." short:"c" type:"existingfile"`
	Manifest  string   `help:"YAML manifest of types and operations." short:"m" type:"existingfile"`
	Package   []string `help:"Go package to extract types from (repeatable)." short:"p"`
	Type      []string `help:"Type to extract from --package (repeatable, default: all exported types)." short:"t"`
	Dir       string   `help:"Directory package paths are resolved in."`
	Out       string   `help:"Output directory, or - for stdout (default: outDir from --config, else .)." short:"o"`
	Format    []string `help:"Output format: json, yaml (repeatable)." short:"f"`
	SchemaIDs string   `help:"Definition naming: short or full." name:"schema-ids"`
	Title     string   `help:"Document title."`
	Version   string   `help:"API version." name:"api-version"`
	OpenAPI3  bool     `help:"Also write the document converted to OpenAPI 3." name:"openapi3"`
	Validate  bool     `help:"Validate the document before writing it."`
	Verbose   bool     `help:"Log debug output." short:"v"`
}

func (c *Cmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := c.config()
	if err != nil {
		return err
	}

	var g *swaggen.Generator
	switch {
	case cfg.Manifest != "":
		g = swaggen.FromManifest(cfg.Manifest)
	case len(cfg.Packages) > 0:
		p := &provider.SourceProvider{}
		catalog, err := p.BuildCatalog(ctx, provider.SourceInputOptions{
			Packages:  cfg.Packages,
			RootTypes: c.Type,
			Dir:       cfg.Dir,
		})
		if err != nil {
			return fmt.Errorf("extract types: %w", err)
		}
		g = swaggen.FromDescriptors(catalog)
	default:
		return errors.New("nothing to generate: pass --manifest or --package, or set them in --config")
	}
	g.WithConfig(*cfg)

	if c.Out == "-" {
		_, err = g.ToSink(ctx, sink.NewWriterSink(os.Stdout))
		return err
	}
	result, err := g.ToDir(ctx, cfg.OutDir)
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Fprintf(os.Stderr, "✓ wrote %s (%d bytes)\n", f.Path, f.Size)
	}
	return nil
}

// config merges the configuration file with flags. Flags win.
func (c *Cmd) config() (*swaggen.Config, error) {
	cfg := &swaggen.Config{}
	if c.Config != "" {
		loaded, err := swaggen.LoadConfig(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.Manifest != "" {
		cfg.Manifest = c.Manifest
	}
	if len(c.Package) > 0 {
		cfg.Packages = c.Package
	}
	if c.Dir != "" {
		cfg.Dir = c.Dir
	}
	if c.Out != "" && c.Out != "-" {
		cfg.OutDir = c.Out
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if len(c.Format) > 0 {
		cfg.Formats = c.Format
	}
	if c.SchemaIDs != "" {
		cfg.SchemaIDs = c.SchemaIDs
	}
	if c.Title != "" {
		cfg.Title = c.Title
	}
	if c.Version != "" {
		cfg.Version = c.Version
	}
	cfg.OpenAPI3 = cfg.OpenAPI3 || c.OpenAPI3
	cfg.ValidateOutput = cfg.ValidateOutput || c.Validate

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
