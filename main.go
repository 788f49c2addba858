// Idiomatic entrypoint for Cobra CLI that delegates to the Cobra root command in cmd/root.go

package main

import (
	"github.com/OpenRailAssociation/popupsim/cmd"
)

func main() {
	cmd.Execute()
}
