package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ticketless-chicago/sweep-cli/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent resolution runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "status: open store")
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "status: list runs")
		}
		if len(runs) == 0 {
			fmt.Println("no resolution runs recorded yet")
			return nil
		}

		fmt.Printf("%-36s %-17s %9s %8s %8s %10s %10s\n",
			"Run", "Started", "Duration", "Total", "OSM", "Geocache", "Unresolved")
		fmt.Println(strings.Repeat("-", 104))
		for _, r := range runs {
			fmt.Printf("%-36s %-17s %8ds %8d %8d %10d %10d\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04"),
				int(r.FinishedAt.Sub(r.StartedAt).Seconds()),
				r.Total, r.OSM, r.Geocache, r.Unresolved)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Int("limit", 10, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
