package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/usdscene/usdscene/internal/usda/parser"
	"github.com/usdscene/usdscene/internal/usda/reader"
	"github.com/usdscene/usdscene/usd"
)

func init() {
	catCmd.Flags().StringVar(&queryFlag, "query", "", "JSONPath expression to run against every Prim's customData after printing")
	rootCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:   "cat <file.usda>",
	Short: "Read a USDA file as the top stage and print its Prim tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, r, err := readStage(args[0])
		if err != nil {
			return err
		}
		if warn := r.GetWarning(); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}

		printPrims(stage.Root, 0)

		if queryFlag != "" {
			expr, err := jp.ParseString(queryFlag)
			if err != nil {
				return fmt.Errorf("invalid --query: %w", err)
			}
			stage.Walk(func(p *usd.Prim) {
				if len(p.Meta.CustomData) == 0 {
					return
				}
				matches := expr.Get(p.Meta.CustomData)
				for _, m := range matches {
					fmt.Printf("%s: %v\n", p.Path, m)
				}
			})
		}
		return nil
	},
}

func readStage(path string) (*usd.Stage, *reader.Reader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	r := reader.New(parser.DefaultConfig())
	if err := r.Read(src, reader.Toplevel); err != nil {
		return nil, r, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := r.ReconstructStage(); err != nil {
		return nil, r, fmt.Errorf("reconstruct %s: %w", path, err)
	}
	return r.GetStage(), r, nil
}

func printPrims(prims []*usd.Prim, depth int) {
	for _, p := range prims {
		fmt.Printf("%s%s %s \"%s\"\n", strings.Repeat("  ", depth), p.Specifier, p.Type, p.Name)
		for setName, vs := range p.VariantSets {
			for variantName, v := range vs.Variants {
				marker := ""
				if vs.Selected == variantName {
					marker = " (selected)"
				}
				fmt.Printf("%s  variant %s=%s%s\n", strings.Repeat("  ", depth), setName, variantName, marker)
				printPrims(v.Children, depth+2)
			}
		}
		printPrims(p.Children, depth+1)
	}
}
