package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choromap/internal/config"
)

var cfg *config.Config

// Flag overrides; empty means "use config".
var (
	flagTopology string
	flagObject   string
	flagData     string
	flagMetric   string
	flagBackend  string
)

var rootCmd = &cobra.Command{
	Use:   "choromap",
	Short: "Interactive neighborhood choropleth in the terminal",
	Long: "Renders neighborhoods from a TopoJSON file, colored by an indicator from a CSV, " +
		"with hover tooltips, a threshold legend and an optional slippy-map basemap.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		applyFlags(c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runView,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagTopology, "topology", "", "TopoJSON file (overrides topology.path)")
	pf.StringVar(&flagObject, "object", "", "object collection inside the topology (overrides topology.object)")
	pf.StringVar(&flagData, "data", "", "indicator CSV (overrides data.path)")
	pf.StringVar(&flagMetric, "metric", "", "indicator to display (overrides data.metric)")
	pf.StringVar(&flagBackend, "backend", "", "vector or tiles (overrides map.backend)")
}

func applyFlags(c *config.Config) {
	if flagTopology != "" {
		c.Topology.Path = flagTopology
	}
	if flagObject != "" {
		c.Topology.Object = flagObject
	}
	if flagData != "" {
		c.Data.Path = flagData
	}
	if flagMetric != "" {
		c.Data.Metric = flagMetric
	}
	if flagBackend != "" {
		c.Map.Backend = flagBackend
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
