package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"binsweep/internal/app/common"
	"binsweep/internal/infra/config"
	"binsweep/internal/infra/history"
	"binsweep/internal/infra/logging"
	"binsweep/internal/infra/trash"
)

var opts common.GlobalOptions

var rootCmd = &cobra.Command{
	Use:   "binsweep",
	Short: "Binsweep assesses and cleans trash directories",
	Long:  "Binsweep scans trash and recycle-bin directories, scores each entry by deletion risk, and removes the ones you confirm.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		appCtx, err := buildAppContext()
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(ctx, common.ContextKeyApp, appCtx))
		return nil
	}

	defer closeHistory()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Preview actions without modifying files")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&opts.Yes, "yes", false, "Auto-confirm destructive actions")
	rootCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.NoHistory, "no-history", false, "Skip recording runs in the history store")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
}

func printResult(v any) error {
	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if line, ok := v.(fmt.Stringer); ok {
		fmt.Println(line.String())
		return nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

var openedHistory *history.Store

func closeHistory() {
	if openedHistory != nil {
		_ = openedHistory.Close()
		openedHistory = nil
	}
}

func buildAppContext() (*common.AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	noHistory := opts.NoHistory || os.Getenv("BINSWEEP_NO_HISTORY") == "1"
	var store *history.Store
	if !noHistory {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			// History is advisory; a broken store never blocks cleanup.
			fmt.Fprintf(os.Stderr, "warning: history store unavailable: %v\n", err)
			store = nil
		}
		openedHistory = store
	}

	return &common.AppContext{
		Options:   opts,
		Config:    cfg,
		Logger:    logging.NewEventLogger(opts.Debug),
		Discovery: trash.NewDiscovery(),
		History:   store,
	}, nil
}

// scanRoots resolves the roots for a scan: explicit --root flags win,
// otherwise the platform trash directories are discovered. Overrides
// pass through unstatted so unavailable ones surface as scan warnings.
func scanRoots(app *common.AppContext, overrides []string) []string {
	if len(overrides) > 0 {
		return overrides
	}
	return app.Discovery.Discover()
}

func isCharDevice(mode os.FileMode) bool {
	return mode&os.ModeCharDevice != 0
}

func isDumbTerm(term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	return t == "" || t == "dumb"
}

func shouldUseInteractive(stdinMode, stdoutMode os.FileMode, term string) bool {
	return isCharDevice(stdinMode) && isCharDevice(stdoutMode) && !isDumbTerm(term)
}
