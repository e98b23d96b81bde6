// bootsim is a host-side simulation harness for the physical memory map
// and heap allocator: it is not the bootloader itself (the loader has no
// CLI of its own) but a development/test friend driving add/insert/alloc/
// protect/finalize/dump from a scenario file. It registers a single "run"
// subcommand with github.com/google/subcommands (see
// tools/gvisor_k8s_tool/main.go in the pack); the scenario verbs are
// dispatched inside that subcommand, not as subcommands of their own.
package main

import (
	"context"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCommand{}, "")

	os.Exit(int(subcommands.Execute(context.Background())))
}
