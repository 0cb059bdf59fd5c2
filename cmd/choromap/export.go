package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"choromap/internal/colormap"
	"choromap/internal/export"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

var (
	exportOut        string
	exportBoundaries bool
)

// createOutput opens the export destination; tests swap it out.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the colored neighborhoods as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(cfg)
		if err != nil {
			return err
		}
		mapper, err := colormap.New(s.scale)
		if err != nil {
			return err
		}
		ds, _ := s.data.Metric(selectedMetric(s))
		fc := export.FeatureCollection(s.set, export.Options{
			Dataset:    ds,
			Fill:       func(r *topo.Region) scale.Color { return mapper.ColorFor(r.Name, ds) },
			Boundaries: exportBoundaries,
		})

		if exportOut == "" || exportOut == "-" {
			return export.Write(cmd.OutOrStdout(), fc)
		}
		return writeFile(exportOut, func(w io.Writer) error { return export.Write(w, fc) })
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().BoolVar(&exportBoundaries, "boundaries", true, "include town boundaries and outline")
	rootCmd.AddCommand(exportCmd)
}

// writeFile runs write against path and reports a failed close, which is
// where a short write to disk surfaces.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return eris.Wrap(err, "export: create output")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
	}()
	return write(f)
}

// selectedMetric is the configured metric or the first one in the file.
func selectedMetric(s *scene) string {
	if cfg.Data.Metric != "" {
		return cfg.Data.Metric
	}
	if len(s.data.Metrics) > 0 {
		return s.data.Metrics[0]
	}
	return ""
}
