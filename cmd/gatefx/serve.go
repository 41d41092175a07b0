package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/gatefx/internal/inspect"
	"github.com/vango-dev/gatefx/pkg/scenario"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		preload []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspector server",
		Long: `Start the inspector HTTP server.

Routes:
  GET  /healthz   liveness probe
  GET  /metrics   Prometheus metrics for every replay
  GET  /ws        WebSocket stream of replayed cycles
  POST /replay    replay a YAML or JSON scenario body

Examples:
  gatefx serve
  gatefx serve --addr=:7070
  curl --data-binary @tag-filter.yaml localhost:7070/replay`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				env.cfg.Inspector.Addr = addr
				if err := env.cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := inspect.New(inspect.Config{
				Addr:           env.cfg.Inspector.Addr,
				Gatherer:       env.registry,
				Observer:       env.observer,
				AllowedOrigins: env.cfg.Inspector.AllowedOrigins,
				Logger:         env.logger,
			})

			// Preloaded scenarios only validate; they are replayed on request.
			for _, ref := range preload {
				client, err := env.objectGetter(ctx, ref)
				if err != nil {
					return err
				}
				sc, err := scenario.Load(ctx, ref, client)
				if err != nil {
					return err
				}
				info("checked %s", sc)
			}

			printBanner()
			success("Inspector running at http://%s", env.cfg.Inspector.Addr)
			if env.cfg.Debug {
				warn("debug mode: hook order is validated on every render")
			}

			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from gatefx.json)")
	cmd.Flags().StringSliceVar(&preload, "check", nil, "Scenario files to validate before starting")

	return cmd
}
