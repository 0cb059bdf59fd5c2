package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choromap/internal/topo"
	"choromap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive map (default)",
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cfg)
	if err != nil {
		return err
	}
	logScene(s)

	m, err := tui.New(tui.Options{
		Set:      s.set,
		Data:     s.data,
		Metric:   cfg.Data.Metric,
		Scale:    s.scale,
		Backends: buildBackends(cfg),
		Zoom:     cfg.Map.Zoom,
		OnClick: func(r *topo.Region) {
			zap.L().Info("neighborhood selected", zap.String("id", r.ID.String()), zap.String("town", r.Town))
		},
	})
	if err != nil {
		return err
	}
	return tui.Run(m)
}
