package check

import (
	"context"
	"fmt"
	"os"

	"github.com/broady/swaggen/export"
)

type Cmd struct {
	Files []string `arg:"" help:"Swagger 2.0 documents (JSON or YAML)." type:"existingfile"`
}

func (c *Cmd) Run() error {
	ctx := context.Background()
	failed := 0
	for _, path := range c.Files {
		definitions, paths, err := checkFile(ctx, path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Printf("✓ %s: %d definitions, %d paths\n", path, definitions, paths)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents are invalid", failed, len(c.Files))
	}
	return nil
}

func checkFile(ctx context.Context, path string) (definitions, paths int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	doc, err := export.Load(data)
	if err != nil {
		return 0, 0, err
	}
	if err := export.Validate(ctx, doc); err != nil {
		return 0, 0, err
	}
	return len(doc.Definitions), len(doc.Paths), nil
}
