// Command usdscene is the ambient CLI surface over the reader library
// (§14): cat, layer, sublayers, mount, and mcp, rooted the way cmd/mount.go's
// rootCmd is, with one subcommand per file (cat.go, layer.go, sublayers.go,
// mount.go, mcp.go) matching the teacher's mount.go/build.go/agent.go split.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var queryFlag string

var rootCmd = &cobra.Command{
	Use:   "usdscene",
	Short: "Inspect, mount, and serve USDA scene files",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
