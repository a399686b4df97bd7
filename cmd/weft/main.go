package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/metrics"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/tracing"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir     string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "Build, inspect and snapshot reactive node trees",
		Long: `weft builds element trees whose nodes bind to reactive sources.

The CLI runs the bundled demo applications so the node lifecycle can be
watched and recorded:

  weft demo counter            print the rendered markup
  weft inspect todo            serve the live inspector
  weft snapshot nav            write a JSON snapshot of the tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "config", "c", ".", "Directory containing weft.yaml or weft.json")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		demoCmd(flags),
		inspectCmd(flags),
		snapshotCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the optional project configuration.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(f.dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger returns the command logger writing to w.
func (f *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// observers builds the observers enabled by cfg. Metrics register on reg.
func observers(cfg *config.Config, reg prometheus.Registerer) []node.Observer {
	var obs []node.Observer
	if cfg.Metrics.Enabled && reg != nil {
		obs = append(obs, metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
			metrics.WithRegistry(reg),
		))
	}
	if cfg.Tracing.Enabled {
		obs = append(obs, tracing.New(
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithTraceReplays(cfg.Tracing.TraceReplays),
		))
	}
	return obs
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
