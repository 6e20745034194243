package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/layout"
	"github.com/msalah0e/ontomap/internal/scene"
	"github.com/msalah0e/ontomap/internal/server"
	"github.com/msalah0e/ontomap/internal/service"
	"github.com/msalah0e/ontomap/internal/telemetry"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		fixturePath   string
		addr          string
		expandOnStart bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live ontology mapping graph over HTTP",
		Long: `Keeps a graph of the fixture's ontologies in memory and serves it.

  GET    /graph.svg              Rendered graph
  GET    /graph.json             Nodes, arcs and positions
  POST   /expand                 Load mapping counts for every ontology shown
  POST   /layout                 {"name": "grid"}
  POST   /nodes/:id/location     {"x": 10, "y": 20}
  POST   /nodes/:id/highlight
  DELETE /nodes/:id
  GET    /metrics                Prometheus metrics (when [serve] metrics = true)`,
		Run: func(cmd *cobra.Command, args []string) {
			f, err := service.LoadFixture(fixturePath)
			if err != nil {
				ui.Bad.Printf("  Failed to load fixture: %v\n", err)
				os.Exit(1)
			}
			serveCfg := cfg.Serve
			if addr != "" {
				serveCfg.Addr = addr
			}

			metrics := telemetry.NewMetrics()
			svc, source, err := mappingService(cfg, f, offlineMode, metrics, logger)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			sess, err := loadSession(cfg, f, metrics, logger)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			l, err := layout.Get(cfg.View.Layout)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			sess.ApplyLayout(l)

			loop := scene.NewLoop(64)
			expander := expand.NewMappingExpander(svc, errorSink(logger),
				expand.WithDispatcher(loop),
				expand.WithLogger(logger),
				expand.WithMetrics(metrics))
			srv := server.New(serveCfg, sess, loop, expander,
				server.WithLogger(logger),
				server.WithMetrics(metrics))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if expandOnStart {
				loop.Dispatch(func() {
					if _, err := sess.Expand(context.WithoutCancel(ctx), expander); err != nil {
						logger.Warn("initial expansion skipped", "error", err)
					}
				})
			}

			ui.Banner("serve")
			fmt.Printf("  Graph:     %s\n", ui.Brand.Sprintf("http://%s/graph.svg", serveCfg.Addr))
			fmt.Printf("  Mappings:  %s\n", source)
			fmt.Printf("  Nodes:     %d\n\n", sess.Graph().NodeCount())

			if err := srv.Run(ctx); err != nil {
				ui.Bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
			sess.Close()
		},
	}

	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "YAML file listing the ontologies")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&expandOnStart, "expand", true, "Load mapping counts once at startup")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
