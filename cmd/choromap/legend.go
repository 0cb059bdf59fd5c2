package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"choromap/internal/colormap"
	"choromap/internal/present"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the legend of the configured color scale",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildScale(cfg.Scale)
		if err != nil {
			return err
		}
		if _, err := colormap.New(s); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, e := range present.LegendEntries(s) {
			fmt.Fprintf(w, "%s  %s\n", e.Color, e.Label)
		}
		fmt.Fprintf(w, "%s  %s\n", colormap.FallbackColor, present.NotAvailable)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(legendCmd)
}
