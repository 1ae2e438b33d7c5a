package main

import (
	"github.com/abdul-hamid-achik/checkrun/apps/cli/cmd"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/selfcheck"
)

// Set with -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	reg := registry.New()
	selfcheck.Register(reg)

	cmd.Execute(reg, version, buildTime)
}
