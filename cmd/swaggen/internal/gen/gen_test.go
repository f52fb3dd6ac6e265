package gen

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const manifest = `
package: example.com/pets
types:
  - name: Pet
    fields:
      - name: name
        type: string
operations:
  - id: createPet
    method: POST
    path: /pets
    parameters:
      - name: pet
        in: body
        type: Pet
`

func TestConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "swaggen.yaml")
	if err := os.WriteFile(cfgPath, []byte("title: From file\nformats: [json]\nopenapi3: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := &Cmd{Config: cfgPath, Title: "From flag", Format: []string{"yaml"}}
	cfg, err := c.config()
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}
	if cfg.Title != "From flag" || !cfg.OpenAPI3 || cfg.Logger == nil {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"yaml"}) {
		t.Errorf("Formats = %v, want [yaml]", cfg.Formats)
	}
}

func TestConfig_InvalidFlag(t *testing.T) {
	_, err := (&Cmd{SchemaIDs: "long"}).config()
	if err == nil || !strings.Contains(err.Error(), "schemaIds") {
		t.Errorf("config() error = %v", err)
	}
}

func TestRun_Manifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	if err := (&Cmd{Manifest: path, Out: out, Format: []string{"json", "yaml"}, Validate: true}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, name := range []string{"swagger.json", "swagger.yaml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestRun_NothingToGenerate(t *testing.T) {
	err := (&Cmd{Out: t.TempDir()}).Run()
	if err == nil || !strings.Contains(err.Error(), "nothing to generate") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestConfig_OutDir(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "swaggen.yaml")
	if err := os.WriteFile(cfgPath, []byte("outDir: from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cmd  Cmd
		want string
	}{
		{"default", Cmd{}, "."},
		{"file", Cmd{Config: cfgPath}, "from-file"},
		{"flag wins", Cmd{Config: cfgPath, Out: "from-flag"}, "from-flag"},
		{"stdout keeps file", Cmd{Config: cfgPath, Out: "-"}, "from-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.cmd.config()
			if err != nil {
				t.Fatalf("config() error = %v", err)
			}
			if cfg.OutDir != tt.want {
				t.Errorf("OutDir = %q, want %q", cfg.OutDir, tt.want)
			}
		})
	}
}

func TestRun_ConfigOutDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "swaggen.yaml")
	if err := os.WriteFile(cfgPath, []byte("outDir: "+out+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := (&Cmd{Config: cfgPath, Manifest: path}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "swagger.json")); err != nil {
		t.Errorf("swagger.json not written to config outDir: %v", err)
	}
}
