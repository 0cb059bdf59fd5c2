package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load topology, data and scale and report problems",
	Long: "Checks that the topology object exists, every neighborhood has a unique id, " +
		"the scale is valid, and lists dataset names that match no neighborhood.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(cfg)
		if err != nil {
			return err
		}
		logScene(s)
		report(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func report(w io.Writer, s *scene) {
	b := s.set.Bound
	fmt.Fprintf(w, "object:       %s\n", s.set.Object)
	fmt.Fprintf(w, "regions:      %d\n", len(s.set.Regions))
	fmt.Fprintf(w, "town borders: %d lines\n", len(s.set.InnerBoundary))
	fmt.Fprintf(w, "outline:      %d polygons\n", len(s.set.OuterBoundary))
	fmt.Fprintf(w, "bbox:         [%.5f, %.5f, %.5f, %.5f]\n", b.Min[0], b.Min[1], b.Max[0], b.Max[1])

	known := make(map[string]bool, len(s.set.Regions))
	for _, r := range s.set.Regions {
		known[r.Name] = true
	}
	for _, metric := range s.data.Metrics {
		ds := s.data.ByMetric[metric]
		var unknown []string
		for name := range ds {
			if !known[name] {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		missing := 0
		for name := range known {
			if _, ok := ds[name]; !ok {
				missing++
			}
		}
		fmt.Fprintf(w, "metric %-20s %d values, %d neighborhoods N/A", metric, len(ds), missing)
		if len(unknown) > 0 {
			fmt.Fprintf(w, ", unmatched: %v", unknown)
		}
		fmt.Fprintln(w)
	}
}
