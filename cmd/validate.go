package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/ui/console"
	"github.com/abhisek/synapse/internal/wordgraph"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check snapshot files against the schema and graph rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		console.Banner(w, "validate")

		failed := 0
		for _, path := range args {
			if !reportValidation(w, path, validateFile(path)) {
				failed++
			}
		}
		fmt.Fprintln(w)
		if failed > 0 {
			return fmt.Errorf("%d of %d snapshot(s) invalid", failed, len(args))
		}
		console.Good.Fprintf(w, "All %d snapshot(s) valid\n", len(args))
		return nil
	},
}

// validation is the outcome of checking one file.
type validation struct {
	stats wordgraph.Stats
	err   error
}

// validateFile decodes path and loads it into a fresh model, so both schema
// and referential problems are reported.
func validateFile(path string) validation {
	format, err := snapshot.FormatFromPath(path)
	if err != nil {
		return validation{err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return validation{err: err}
	}
	snap, err := snapshot.Decode(data, format)
	if err != nil {
		return validation{err: err}
	}
	m := wordgraph.New()
	if err := m.Load(snap.Graph()); err != nil {
		return validation{err: err}
	}
	return validation{stats: m.Stats()}
}

func reportValidation(w io.Writer, path string, v validation) bool {
	if v.err == nil {
		fmt.Fprintf(w, "  %s %s  %s\n", console.StatusIcon(true), path,
			console.Subtle.Sprintf("%d words (%d solid, %d ghost), %d relations",
				v.stats.Total, v.stats.Solid, v.stats.Ghost, v.stats.Edges))
		return true
	}

	fmt.Fprintf(w, "  %s %s\n", console.StatusIcon(false), path)
	var verr *wordgraph.ValidationError
	if errors.As(v.err, &verr) {
		for _, p := range verr.Problems {
			fmt.Fprintf(w, "      %s %s\n", console.WarnIcon(), p)
		}
		return false
	}
	fmt.Fprintf(w, "      %s\n", console.Bad.Sprint(v.err))
	return false
}
