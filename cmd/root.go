package cmd

import (
	"github.com/abhisek/synapse/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Interactive vocabulary knowledge graph",
	Long: `Synapse draws your vocabulary as a living graph: mastered words are solid,
words you are still learning are ghosts, and related words pull together.
Drag nodes to rearrange them, click one to see its connections.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	registerFlags(rootCmd)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// registerFlags adds the flags shared by every subcommand.
func registerFlags(c *cobra.Command) {
	pf := c.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/synapse/config.toml)")
	pf.String("db", "", "Path to SQLite database file (overrides SYNAPSE_DB env var)")
	pf.String("log-file", "", "Write logs to this file (TUI default: <data dir>/synapse.log)")
	pf.Bool("debug", false, "Enable debug logging")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	pf.String("source", "", "Snapshot source: demo, file, sqlite, postgres or http")
	pf.String("snapshot", "", "Snapshot file (.json, .yaml); implies --source file")
	pf.String("pg", "", "Postgres URL; implies --source postgres")
	pf.String("url", "", "API base URL, e.g. http://localhost:8080/api/v1; implies --source http")
	pf.String("token", "", "Bearer token for the http source (default $SYNAPSE_TOKEN)")
	pf.String("user", "", "User whose vocabulary to show")
	pf.Bool("watch", false, "Reload the snapshot file when it changes")
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SYNAPSE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
