package swaggen

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/swaggen/export"
	"github.com/broady/swaggen/naming"
)

// Config holds the configuration for document generation.
type Config struct {
	// Provider selects the type extraction strategy for Go types.
	// "reflection" (default) - runtime reflection, descriptions from `doc` tags
	// "source" - go/packages, adds doc comments and const-group enums
	Provider string `yaml:"provider" validate:"omitempty,oneof=reflection source"`

	// Packages are the Go package paths to analyze with the source provider.
	// Default: the packages of the described types.
	Packages []string `yaml:"packages"`

	// Dir is the directory package paths are resolved in.
	Dir string `yaml:"dir"`

	// Manifest is a YAML manifest of types and operations, used instead of
	// Go types.
	Manifest string `yaml:"manifest"`

	// SchemaIDs selects definition naming: "short" (default) uses the bare
	// type name, "full" qualifies it with the package path.
	SchemaIDs string `yaml:"schemaIds" validate:"omitempty,oneof=short full"`

	// EnumNames emits every enum by member name.
	EnumNames bool `yaml:"enumNames"`

	// CamelCaseEnums camel-cases member names of name-encoded enums.
	CamelCaseEnums bool `yaml:"camelCaseEnums"`

	// Title, Version and Description fill the document's info object.
	// Title and Version default to "API" and "1.0.0".
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`

	// OutDir is where ToDir writes when called with an empty directory.
	OutDir string `yaml:"outDir"`

	// FileName is the base name of written documents (default "swagger").
	FileName string `yaml:"fileName" validate:"omitempty,excludesall=/\\"`

	// Formats lists the encodings to write: "json" (default), "yaml".
	Formats []string `yaml:"formats" validate:"dive,oneof=json yaml yml"`

	// OpenAPI3 additionally writes "<FileName>.openapi3.<ext>" converted
	// to OpenAPI 3.
	OpenAPI3 bool `yaml:"openapi3"`

	// ValidateOutput checks the generated document with the OpenAPI
	// validator before anything is written.
	ValidateOutput bool `yaml:"validateOutput"`

	// Logger receives progress output. Default: slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfig reads a YAML configuration file. Unknown keys are errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	msgs := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msgs = append(msgs, field+": "+formatValidationError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// schemaID maps SchemaIDs to a naming strategy.
func (c *Config) schemaID() naming.SchemaIDFunc {
	if c.SchemaIDs == "full" {
		return naming.FullID
	}
	return naming.ShortID
}

func (c *Config) formats() ([]export.Format, error) {
	out := make([]export.Format, 0, len(c.Formats))
	seen := make(map[export.Format]bool)
	for _, s := range c.Formats {
		f, err := export.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Provider == "" {
		result.Provider = "reflection"
	}
	if result.SchemaIDs == "" {
		result.SchemaIDs = "short"
	}
	if result.Title == "" {
		result.Title = "API"
	}
	if result.Version == "" {
		result.Version = "1.0.0"
	}
	if result.FileName == "" {
		result.FileName = "swagger"
	}
	if len(result.Formats) == 0 {
		result.Formats = []string{string(export.FormatJSON)}
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}
