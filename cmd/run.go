package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/app"
)

// runApp opens the configured source and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	src, err := openSource(cmd.Context(), cmd, e.cfg)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.close()

	e.logger.Info("starting", "source", src.source.Describe())
	return app.Run(app.Options{
		Source:  src.source,
		Watcher: src.watcher,
		Config:  e.cfg,
		Logger:  e.logger,
		Metrics: e.metrics,
	})
}
