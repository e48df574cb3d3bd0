package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/config"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/store"
)

// demoDSN is a shared in-memory database so every connection of the pool
// sees the seeded words.
const demoDSN = "file:synapse-demo?mode=memory&cache=shared"

// openedSource is a snapshot source plus whatever must be released with it.
type openedSource struct {
	source  snapshot.Source
	watcher snapshot.Watcher
	close   func()
}

// openSource builds the source named by cfg.Source.Kind.
func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*openedSource, error) {
	sc := cfg.Source
	switch sc.Kind {
	case "demo":
		st, err := store.Open(demoDSN)
		if err != nil {
			return nil, fmt.Errorf("open demo store: %w", err)
		}
		if _, err := store.Seed(ctx, st.WordRepo(), sc.User); err != nil {
			st.Close()
			return nil, err
		}
		return &openedSource{source: st.Source(sc.User), close: func() { st.Close() }}, nil

	case "sqlite":
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &openedSource{source: st.Source(sc.User), close: func() { st.Close() }}, nil

	case "postgres":
		pg, err := store.OpenPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, err
		}
		return &openedSource{source: pg.Source(sc.User), close: func() { pg.Close() }}, nil

	case "http":
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("SYNAPSE_TOKEN")
		}
		return &openedSource{source: snapshot.NewHTTPSource(sc.URL, sc.User, token), close: func() {}}, nil

	case "file":
		fs, err := snapshot.NewFileSource(sc.Path)
		if err != nil {
			return nil, err
		}
		out := &openedSource{source: fs, close: func() {}}
		if sc.Watch {
			out.watcher = fs
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown source kind %q", sc.Kind)
}
