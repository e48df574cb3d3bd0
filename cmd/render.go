package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/mindmap"
	"github.com/abhisek/synapse/internal/render"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/ui/console"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Lay out a snapshot headlessly and write the picture",
	Long: `Render runs the force layout to rest without a terminal and writes the
result as SVG, JSON positions or a text canvas.`,
	Example: `  synapse render --snapshot words.json --format svg --out words.svg
  synapse render --format text`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.String("format", "svg", "Output format: svg, json or text")
	f.Float64("width", 800, "Surface width in graph units")
	f.Float64("height", 600, "Surface height in graph units")
	f.StringP("out", "o", "", "Output file (default stdout)")
	f.Int("max-ticks", 1000, "Stop after this many ticks even if not settled (0 = no cap)")
	f.Duration("timeout", 30*time.Second, "Give up fetching and laying out after this long")
}

func runRender(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	enc, err := render.Lookup(format)
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface size must be positive, got %gx%g", width, height)
	}
	maxTicks, _ := cmd.Flags().GetInt("max-ticks")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	src, err := openSource(ctx, cmd, e.cfg)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.close()

	snap, err := src.source.Fetch(ctx)
	if err != nil {
		return err
	}

	frame, ticks, err := layoutFrame(ctx, snap, e, width, height, maxTicks)
	if err != nil {
		return err
	}
	data, err := enc.Encode(frame)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Name(), err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	reportRender(cmd.ErrOrStderr(), out, enc, frame, ticks)
	return nil
}

// layoutFrame loads snap into a headless instance and runs the layout to
// rest. It returns the final frame and the number of ticks run.
func layoutFrame(ctx context.Context, snap *snapshot.Snapshot, e *env, width, height float64, maxTicks int) (render.Frame, int, error) {
	mm := mindmap.New(mindmap.Options{
		Layout:  &e.cfg.Layout,
		Style:   &e.cfg.Style,
		Logger:  e.logger,
		Metrics: e.metrics,
	})
	defer mm.Close()

	// Size first so the initial placement is centred on the surface.
	mm.Resize(width, height)
	if err := mm.Load(snap); err != nil {
		return render.Frame{}, 0, err
	}
	ticks, err := mm.Simulation().Run(ctx, maxTicks)
	if err != nil {
		return render.Frame{}, ticks, fmt.Errorf("layout: %w", err)
	}
	e.logger.Debug("layout finished", "ticks", ticks, "alpha", mm.Simulation().Alpha())
	return mm.Frame(), ticks, nil
}

func reportRender(w io.Writer, path string, enc render.Encoder, f render.Frame, ticks int) {
	fmt.Fprintf(w, "%s wrote %s (%s, %d nodes, %d edges, %d ticks)\n",
		console.StatusIcon(true), path, enc.Name(), len(f.Circles), len(f.Lines), ticks)
}
