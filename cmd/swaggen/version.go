package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version when installed with `go install
// ...@version`, and "devel-<VERSION>[+<revision>]" for local builds.
func Version() string {
	base := strings.TrimSpace(embeddedVersion)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	devel := "devel-" + base
	for _, s := range info.Settings {
		if s.Key != "vcs.revision" || len(s.Value) < 7 {
			continue
		}
		devel += "+" + s.Value[:7]
		break
	}
	return devel
}
