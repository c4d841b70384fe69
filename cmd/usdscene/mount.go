package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/winfsp/cgofuse/fuse"

	"github.com/usdscene/usdscene/internal/stagefs"
)

func init() {
	rootCmd.AddCommand(mountCmd)
}

var mountCmd = &cobra.Command{
	Use:   "mount <file.usda> <mountpoint>",
	Short: "Reconstruct a Stage and FUSE-mount it read-only as a virtual filesystem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, r, err := readStage(args[0])
		if err != nil {
			return err
		}
		if warn := r.GetWarning(); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}

		sfs := stagefs.NewStageFS(stage)
		host := fuse.NewFileSystemHost(sfs)

		fmt.Printf("Mounting %s at %s (read-only)...\n", args[0], args[1])
		opts := []string{
			"-o", "ro",
			"-o", fmt.Sprintf("uid=%d", os.Getuid()),
			"-o", fmt.Sprintf("gid=%d", os.Getgid()),
		}
		if !host.Mount(args[1], opts) {
			return fmt.Errorf("mount failed")
		}
		return nil
	},
}
