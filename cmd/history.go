package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binsweep/internal/app/common"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent cleanup runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		if app.History == nil {
			return fmt.Errorf("history store is disabled or unavailable")
		}
		if historyLimit < 1 {
			return fmt.Errorf("--limit must be >= 1")
		}

		runs, err := app.History.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if opts.JSON {
			return printResult(runs)
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}
		for _, run := range runs {
			mode := "clean"
			if run.DryRun {
				mode = "dry-run"
			}
			fmt.Printf("%s  %-7s  deleted %d  failed %d  freed %s\n",
				run.StartedAt.Format("2006-01-02 15:04"), mode, run.Deleted, run.Failed,
				humanize.Bytes(run.BytesFreed))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
}
