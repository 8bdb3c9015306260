// Grounded on the teacher's internal/cmd.watchCmd: graceful shutdown via
// signal.Notify + context, a background pipeline goroutine, and a
// foreground render loop — generalized from tailing arbitrary glob
// patterns with a persistent on-disk checkpoint to tailing the single
// --log path a `map` run would otherwise take a one-shot snapshot of.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/log2src/internal/encode"
	"github.com/atikulmunna/log2src/internal/engine"
	"github.com/atikulmunna/log2src/internal/watch"
)

var (
	watchRoots     []string
	watchLog       string
	watchFormat    string
	watchCallGraph bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a growing log file and print mappings as new lines arrive",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVarP(&watchRoots, "directory", "d", nil, "source root to index (repeatable; later roots shadow earlier ones)")
	watchCmd.Flags().StringVar(&watchLog, "log", "", "log file to watch (required)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "layout pattern")
	watchCmd.Flags().BoolVar(&watchCallGraph, "call-graph", false, "enrich stack resolution with static call-graph hints")
	watchCmd.MarkFlagRequired("log")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(watchRoots) == 0 {
		return fmt.Errorf("at least one -d/--directory is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "log2src: shutting down")
		cancel()
	}()

	eng, err := engine.Build(ctx, buildConfig(watchRoots, watchFormat, watchCallGraph, false))
	if err != nil {
		return err
	}

	w, err := watch.New(eng, watchLog)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchLog, err)
	}
	go w.Start(ctx)

	renderer := encode.NewTextRenderer()
	for m := range w.Mappings {
		if err := renderer.Render(m, ""); err != nil {
			fmt.Fprintf(os.Stderr, "log2src: render error: %v\n", err)
		}
	}
	return nil
}
