package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usdscene/usdscene/internal/usda/parser"
	"github.com/usdscene/usdscene/internal/usda/reader"
	"github.com/usdscene/usdscene/usd"
)

func init() {
	rootCmd.AddCommand(layerCmd)
}

var layerCmd = &cobra.Command{
	Use:   "layer <file.usda>",
	Short: "Read a USDA file as an untyped composition-arc layer and print its PrimSpec tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		r := reader.New(parser.DefaultConfig())
		if err := r.Read(src, reader.Reference); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		layer, err := r.GetAsLayer()
		if err != nil {
			return fmt.Errorf("build layer for %s: %w", args[0], err)
		}
		if warn := r.GetWarning(); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}

		printSpecs(layer.Root, 0)
		return nil
	},
}

func printSpecs(specs []*usd.PrimSpec, depth int) {
	for _, s := range specs {
		typeName := s.TypeName
		if typeName == "" {
			typeName = "(untyped)"
		}
		fmt.Printf("%s%s %s \"%s\"\n", strings.Repeat("  ", depth), s.Specifier, typeName, s.Name)
		for setName, variants := range s.VariantSets {
			for variantName, spec := range variants {
				fmt.Printf("%s  variant %s=%s\n", strings.Repeat("  ", depth), setName, variantName)
				printSpecs(spec.Children, depth+2)
			}
		}
		printSpecs(s.Children, depth+1)
	}
}
