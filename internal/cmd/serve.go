// Grounded on the teacher's internal/server wiring: a Hub fed by the
// live pipeline, an Aggregator subscribed to the same Hub for /healthz
// and /api/stats, and a gin Server exposing both plus a websocket stream
// — generalized from log entries to log mappings.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/log2src/internal/aggregator"
	"github.com/atikulmunna/log2src/internal/engine"
	"github.com/atikulmunna/log2src/internal/hub"
	"github.com/atikulmunna/log2src/internal/server"
	"github.com/atikulmunna/log2src/internal/watch"
)

var (
	serveRoots     []string
	serveLog       string
	serveFormat    string
	servePort      string
	serveCallGraph bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live dashboard streaming log mappings over WebSocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringArrayVarP(&serveRoots, "directory", "d", nil, "source root to index (repeatable; later roots shadow earlier ones)")
	serveCmd.Flags().StringVar(&serveLog, "log", "", "log file to watch (required)")
	serveCmd.Flags().StringVarP(&serveFormat, "format", "f", "", "layout pattern")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "port to listen on")
	serveCmd.Flags().BoolVar(&serveCallGraph, "call-graph", false, "enrich stack resolution with static call-graph hints")
	serveCmd.MarkFlagRequired("log")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(serveRoots) == 0 {
		return fmt.Errorf("at least one -d/--directory is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	eng, err := engine.Build(ctx, buildConfig(serveRoots, serveFormat, serveCallGraph, false))
	if err != nil {
		return err
	}

	w, err := watch.New(eng, serveLog)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", serveLog, err)
	}
	go w.Start(ctx)

	h := hub.New()
	go h.Run(ctx, w.Mappings)

	agg := aggregator.New(h.Subscribe(), h.Dropped)
	go agg.Start(ctx)

	srv := server.New(h, agg, servePort)
	fmt.Fprintf(os.Stderr, "log2src: serving on :%s\n", servePort)
	return srv.Start()
}
