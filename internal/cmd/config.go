package cmd

import (
	"github.com/spf13/viper"

	"github.com/atikulmunna/log2src/internal/engine"
)

// buildConfig turns the roots, an explicit --format flag (empty means "use
// .log2src.yaml's default, or the built-in layout"), and the --call-graph/
// --verbose flags into an engine.Config, applying viper-loaded defaults for
// whatever flags the caller didn't set (SPEC_FULL.md §6A's ".log2src.yaml
// mirrors .loom.yaml").
func buildConfig(roots []string, format string, callGraph, verbose bool) engine.Config {
	cfg := engine.DefaultConfig(roots[0])
	cfg.SourceRoots = roots
	cfg.UseCallGraph = callGraph
	cfg.Verbose = verbose

	switch {
	case format != "":
		cfg.LayoutPattern = format
	case viper.IsSet("format"):
		cfg.LayoutPattern = viper.GetString("format")
	}
	if viper.IsSet("accept_threshold") {
		cfg.AcceptThreshold = viper.GetFloat64("accept_threshold")
	}
	if viper.IsSet("stack_proximity") {
		cfg.StackProximity = viper.GetInt("stack_proximity")
	}
	return cfg
}
