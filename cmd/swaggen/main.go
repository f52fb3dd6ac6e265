package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/broady/swaggen/cmd/swaggen/internal/check"
	"github.com/broady/swaggen/cmd/swaggen/internal/gen"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate a Swagger 2.0 document from a manifest or Go packages."`
	Check   check.Cmd  `cmd:"" help:"Validate existing Swagger 2.0 documents."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("swaggen"),
		kong.Description("Swagger 2.0 document generator."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
