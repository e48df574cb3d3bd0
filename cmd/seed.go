package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/ui/console"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the demo vocabulary to the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		user := e.cfg.Source.User
		res, err := store.Seed(cmd.Context(), st.WordRepo(), user)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		console.Banner(w, "seed")
		console.Table(w, []string{"WORD", "STATUS", "MEANING"}, demoRows())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s new words, %s already present, %s relations added for user %s\n",
			console.StatusIcon(true),
			console.Info.Sprint(strconv.Itoa(res.WordsAdded)),
			console.Subtle.Sprint(strconv.Itoa(res.WordsExisting)),
			console.Info.Sprint(strconv.Itoa(res.RelationsAdded)),
			user)
		console.Subtle.Fprintf(w, "  %s\n", dbPath)
		return nil
	},
}

func demoRows() [][]string {
	rows := make([][]string, 0, len(store.DemoWords))
	for _, w := range store.DemoWords {
		rows = append(rows, []string{w.Word, w.Status, w.Definition})
	}
	return rows
}
