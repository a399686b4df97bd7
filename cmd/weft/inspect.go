package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/pkg/inspect"
	"github.com/vango-dev/weft/pkg/node"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		tick time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect <demo>",
		Short: "Serve the live inspector for a demo",
		Long: `Build a demo application and serve its node tree over HTTP.

Endpoints: /tree, /tree.html, /nodes/{id}, /metrics, /events (websocket)
and /healthz. With --tick the demo is driven periodically so lifecycle
events keep flowing to /events.

Examples:
  weft inspect counter
  weft inspect todo --addr :8080 --tick 2s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			logger := flags.logger(cmd.ErrOrStderr())

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			cfg.Metrics.Enabled = true

			hub := inspect.NewHub(cfg.Inspect.AllowedOrigins, logger)
			defer hub.Close()

			obs := append([]node.Observer{hub}, observers(cfg, reg)...)
			app, err := demo.New(args[0], cfg, logger, node.WithObserver(obs...))
			if err != nil {
				return err
			}

			var mu sync.Mutex
			server := &http.Server{
				Addr: cfg.Inspect.Addr,
				Handler: inspect.New(app.Builder,
					inspect.WithHub(hub),
					inspect.WithGatherer(reg),
					inspect.WithLock(&mu),
					inspect.WithLogger(logger),
				),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			w := cmd.OutOrStdout()
			success(w, "Inspecting %s on http://%s", app.Name, server.Addr)
			info(w, "tree:   http://%s/tree.html", server.Addr)
			info(w, "events: ws://%s/events", server.Addr)

			g.Go(func() error {
				logger.Info("inspector listening", "addr", server.Addr, "demo", app.Name)
				if err := server.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			if tick > 0 {
				g.Go(func() error {
					t := time.NewTicker(tick)
					defer t.Stop()
					for {
						select {
						case <-ctx.Done():
							return nil
						case <-t.C:
							mu.Lock()
							app.Tick()
							mu.Unlock()
						}
					}
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Drive the demo at this interval (0 disables)")

	return cmd
}
