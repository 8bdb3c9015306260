// Package cmd wires log2src's cobra command tree: a required `map`
// one-shot, plus the `watch` and `serve` convenience wrappers
// (SPEC_FULL.md §6A). Grounded on the teacher's internal/cmd.rootCmd,
// minus its $HOME config path and environment-variable binding — spec.md
// §6 takes no environment-variable input, so config resolution is
// restricted to an explicit --config flag or a ./.log2src.yaml in the
// working directory.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "log2src",
	Short: "log2src — map log lines back to the source that logged them",
	Long: `log2src extracts logging call sites from a source tree, matches
incoming log lines against the templates it finds, and reports the exact
file, line, and recovered variables that produced each one.`,
}

// Execute runs the root command, exiting non-zero on a Fatal-tier error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./.log2src.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".log2src")
		viper.SetConfigType("yaml")
	}
	_ = viper.ReadInConfig()
}
