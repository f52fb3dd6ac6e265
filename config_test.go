package swaggen

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/broady/swaggen/export"
)

func TestLoadConfig(t *testing.T) {
	const data = `
provider: source
packages: [example.com/pets]
schemaIds: full
enumNames: true
title: Pets
formats: [yaml, json, yml]
openapi3: true
`
	path := filepath.Join(t.TempDir(), "swaggen.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Provider != "source" || cfg.SchemaIDs != "full" || !cfg.EnumNames || !cfg.OpenAPI3 {
		t.Errorf("cfg = %+v", cfg)
	}

	formats, err := cfg.formats()
	if err != nil {
		t.Fatal(err)
	}
	if want := []export.Format{export.FormatYAML, export.FormatJSON}; !reflect.DeepEqual(formats, want) {
		t.Errorf("formats() = %v, want %v", formats, want)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "colour: red\n", "field colour not found"},
		{"bad provider", "provider: magic\n", "provider: must be one of: reflection source"},
		{"bad format", "formats: [xml]\n", "formats[0]: must be one of"},
		{"file name with slash", "fileName: a/b\n", "fileName: must not contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "swaggen.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	in := &Config{Title: "Pets"}
	got := applyConfigDefaults(in)

	if got.Provider != "reflection" || got.SchemaIDs != "short" || got.Version != "1.0.0" ||
		got.FileName != "swagger" || got.Logger == nil {
		t.Errorf("applyConfigDefaults() = %+v", got)
	}
	if got.Title != "Pets" {
		t.Errorf("Title = %q, want Pets", got.Title)
	}
	if !reflect.DeepEqual(got.Formats, []string{"json"}) {
		t.Errorf("Formats = %v, want [json]", got.Formats)
	}
	if in.Provider != "" || in.Logger != nil {
		t.Errorf("input was modified: %+v", in)
	}
}
