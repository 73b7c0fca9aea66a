package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/dragon"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	metrics    *dragon.Metrics
	registry   *prometheus.Registry
}

// newRootCmd builds the command tree. Tests build a fresh one per case.
func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "dragon",
		Short:         "dragon runs direct-manipulation diagrams",
		Long:          `dragon opens the bundled demo diagrams in a window, lists them, and dumps their rendered frames as YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML file with engine settings")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(g), newInspectCmd(g), newDemosCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options turns the persistent flags into engine options.
func (g *globals) options() ([]dragon.Option, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(g.logLevel)
	if err != nil {
		return nil, err
	}
	if g.metrics == nil {
		g.registry = prometheus.NewRegistry()
		g.metrics = dragon.NewMetrics(g.registry)
	}
	return []dragon.Option{
		dragon.WithConfig(cfg),
		dragon.WithLogger(logger),
		dragon.WithMetrics(g.metrics),
	}, nil
}

// loadConfig reads engine settings from a YAML file over the defaults. An
// empty path yields the defaults.
func loadConfig(path string) (dragon.Config, error) {
	if path == "" {
		return dragon.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return dragon.Config{}, fmt.Errorf("read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dragon.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg, err := dragon.ConfigFromMap(raw)
	if err != nil {
		return dragon.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
