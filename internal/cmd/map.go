package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/log2src/internal/encode"
	"github.com/atikulmunna/log2src/internal/engine"
	"github.com/atikulmunna/log2src/internal/logrecord"
)

var (
	mapRoots     []string
	mapLogPath   string
	mapFormat    string
	mapStart     int
	mapEnd       int
	mapOutputFmt string
	mapCallGraph bool
	mapVerbose   bool
)

// mapCmd is the spec.md §6 contract: a one-shot mapping of a log file
// (or a line range of it) against a source tree's templates.
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a log file's lines to the source location that produced each",
	RunE:  runMap,
}

func init() {
	mapCmd.Flags().StringArrayVarP(&mapRoots, "directory", "d", nil, "source root to index (repeatable; later roots shadow earlier ones)")
	mapCmd.Flags().StringVar(&mapLogPath, "log", "", "log file to map (required)")
	mapCmd.Flags().StringVarP(&mapFormat, "format", "f", "", "layout pattern (default: a built-in timestamp/level/message layout)")
	mapCmd.Flags().IntVar(&mapStart, "start", 0, "first line to map, 1-based (default: whole file)")
	mapCmd.Flags().IntVar(&mapEnd, "end", 0, "line to stop before, 1-based exclusive (default: whole file)")
	mapCmd.Flags().StringVarP(&mapOutputFmt, "output", "o", "json", "output format: json, text")
	mapCmd.Flags().BoolVar(&mapCallGraph, "call-graph", false, "enrich stack resolution with static call-graph hints")
	mapCmd.Flags().BoolVarP(&mapVerbose, "verbose", "v", false, "include each mapping's acceptance score")
	mapCmd.MarkFlagRequired("log")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	if len(mapRoots) == 0 {
		return fmt.Errorf("at least one -d/--directory is required")
	}

	eng, err := engine.Build(context.Background(), buildConfig(mapRoots, mapFormat, mapCallGraph, mapVerbose))
	if err != nil {
		return err
	}

	f, err := os.Open(mapLogPath)
	if err != nil {
		return err
	}
	defer f.Close()

	mappings := eng.MapReader(f, logrecord.Window{Start: mapStart, End: mapEnd})

	if mapOutputFmt == "text" {
		r := encode.NewTextRenderer()
		for _, m := range mappings {
			if err := r.Render(m, ""); err != nil {
				return err
			}
		}
		return nil
	}
	return encode.EncodeWindow(os.Stdout, mappings)
}
