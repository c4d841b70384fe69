package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/usdscene/usdscene/internal/cache"
	"github.com/usdscene/usdscene/internal/usda/parser"
	"github.com/usdscene/usdscene/internal/usda/reader"
)

func init() {
	rootCmd.AddCommand(sublayersCmd)
}

var sublayersCmd = &cobra.Command{
	Use:   "sublayers <file.usda>",
	Short: "Walk a stage's subLayers chain, memoizing each load in a layer-load cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, r, err := readStage(args[0])
		if err != nil {
			return err
		}
		if warn := r.GetWarning(); warn != "" {
			fmt.Fprintln(os.Stderr, warn)
		}

		lc, err := cache.Open(":memory:")
		if err != nil {
			return fmt.Errorf("open layer cache: %w", err)
		}
		defer lc.Close()

		// Each named path is resolved against the directory of the layer
		// that names it.
		type pending struct{ baseDir, assetPath string }
		var queue []pending
		for _, s := range stage.Metas.SubLayers {
			queue = append(queue, pending{filepath.Dir(args[0]), s})
		}
		seen := map[string]bool{}

		for len(queue) > 0 {
			item := queue[0]
			queue = queue[1:]

			resolved := resolveAssetPath(item.baseDir, item.assetPath)
			if seen[resolved] {
				continue
			}
			seen[resolved] = true

			subLayers, err := loadSubLayerCached(lc, resolved)
			if err != nil {
				return err
			}
			for _, s := range subLayers {
				queue = append(queue, pending{filepath.Dir(resolved), s})
			}
		}
		return nil
	},
}

// loadSubLayerCached loads the composition-arc layer at resolved, consulting
// lc first so a diamond-shaped subLayers chain (two different arcs naming
// the same file) tokenizes that file only once. It returns the loaded
// layer's own subLayers paths so the caller can keep walking the chain.
func loadSubLayerCached(lc *cache.LayerCache, resolved string) ([]string, error) {
	if entry, hit, err := lc.Lookup(resolved); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", resolved, err)
	} else if hit {
		fmt.Printf("%s: cache hit (%d root prims, loaded %s)\n", resolved, entry.RootCount, entry.LoadedAt.Format(time.RFC3339))
		return nil, nil
	}

	src, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resolved, err)
	}

	sub := reader.New(parser.DefaultConfig())
	if err := sub.Read(src, reader.SubLayer); err != nil {
		return nil, fmt.Errorf("parse %s: %w", resolved, err)
	}
	layer, err := sub.GetAsLayer()
	if err != nil {
		return nil, fmt.Errorf("build layer for %s: %w", resolved, err)
	}
	if err := lc.Record(resolved, len(layer.Root), time.Now()); err != nil {
		return nil, fmt.Errorf("record %s: %w", resolved, err)
	}
	fmt.Printf("%s: loaded (%d root prims)\n", resolved, len(layer.Root))

	return layer.Metas.SubLayers, nil
}

func resolveAssetPath(baseDir, assetPath string) string {
	if filepath.IsAbs(assetPath) {
		return assetPath
	}
	return filepath.Join(baseDir, assetPath)
}
