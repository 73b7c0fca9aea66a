package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/phanxgames/dragon/host"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		scale       float64
		metricsAddr string
		showMode    bool
	)
	cmd := &cobra.Command{
		Use:   "run <demo>",
		Short: "Open a demo diagram in a window",
		Long:  `Opens the named demo in a window. Drag with the mouse or a finger; P pauses, D toggles debug checks, Escape cancels a drag.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDemo(args[0])
			if err != nil {
				return err
			}
			opts, err := g.options()
			if err != nil {
				return err
			}
			s, err := d.New(opts...)
			if err != nil {
				return err
			}
			logger, _ := newLogger(g.logLevel)

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:    metricsAddr,
					Handler: promhttp.HandlerFor(g.registry, promhttp.HandlerOpts{}),
				}
				go func() {
					logger.Info("serving metrics", "addr", metricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", "error", err)
					}
				}()
				defer srv.Close()
			}

			return host.Run(s, host.RunConfig{
				Title:    "dragon: " + d.Name,
				Width:    int(float64(d.Width) * scale),
				Height:   int(float64(d.Height) * scale),
				Scale:    scale,
				ShowMode: showMode,
				Logger:   logger,
			})
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 2, "window pixels per diagram unit")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&showMode, "show-mode", true, "overlay the interaction mode")
	return cmd
}
