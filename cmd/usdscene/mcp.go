package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usdscene/usdscene/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp <file.usda>",
	Short: "Reconstruct a Stage and serve the MCP introspection tools over stdio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, r, err := readStage(args[0])
		if err != nil {
			return err
		}
		if warn := r.GetWarning(); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}

		return mcpserver.New(stage).ServeStdio()
	},
}
