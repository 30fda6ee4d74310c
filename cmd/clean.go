package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binsweep/internal/app/cleanup"
	"binsweep/internal/app/common"
	"binsweep/internal/app/report"
	"binsweep/internal/app/scan"
	"binsweep/internal/domain/model"
	"binsweep/internal/domain/selection"
	"binsweep/internal/infra/trash"
)

var cleanRootFlags []string
var cleanAllSafe bool
var cleanCategory string
var cleanMaxRisk string
var cleanReport string

var cleanCmd = &cobra.Command{
	Use:   "clean [path]...",
	Short: "Delete trash entries after risk assessment",
	Long:  "Clean scans the trash roots, selects entries by explicit path or by the selection flags, and deletes them. Without --yes or --dry-run the command refuses to touch anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 && !cleanAllSafe && cleanCategory == "" && cleanMaxRisk == "" {
			return fmt.Errorf("nothing selected: pass paths or one of --all-safe, --category, --max-risk")
		}
		maxRisk, err := parseRiskFlag(cleanMaxRisk)
		if err != nil {
			return err
		}
		if err := common.RequireConfirmationOrDryRun(app, "clean"); err != nil {
			return err
		}
		if len(cleanRootFlags) > 0 {
			app.Discovery = trash.Static(cleanRootFlags)
		}

		set, err := scan.NewService().Run(cmd.Context(), app, scanRoots(app, cleanRootFlags))
		if err != nil {
			return err
		}

		items, missing := selectItems(set, args, maxRisk, app.Config.MinRiskThreshold)
		for _, path := range missing {
			fmt.Fprintf(os.Stderr, "warning: %s not found in scan, skipping\n", path)
		}
		if len(items) == 0 {
			fmt.Fprintln(os.Stderr, "nothing to delete")
			return nil
		}

		dryRun := common.EffectiveDryRun(app)
		result, err := cleanup.NewService().Run(cmd.Context(), app, items, dryRun)
		if err != nil {
			return err
		}
		recordHistory(cmd, app, result)
		if cleanReport != "" {
			if err := writeCleanReport(cleanReport, result); err != nil {
				return err
			}
		}

		if !opts.JSON {
			verb := "freed"
			if result.DryRun {
				verb = "would free"
			}
			fmt.Printf("%d deleted, %d failed, %s %s\n",
				result.Deleted, result.Failed, verb, humanize.Bytes(result.BytesFreed))
		}
		return printResult(result)
	},
}

// selectItems resolves the requested items: explicit paths first, then
// the flag-driven selections, deduplicated. Bulk selections never pick
// items above the configured risk ceiling; an explicitly named path
// does, the user typed it.
func selectItems(set model.ScanResultSet, paths []string, maxRisk, ceiling model.RiskLevel) ([]model.Item, []string) {
	st := selection.NewState()
	var missing []string
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if it, ok := set.Find(p); ok {
			st.Select(it.Record.Path)
		} else {
			missing = append(missing, p)
		}
	}

	bulk := set.Items
	if ceiling != "" {
		bulk = set.FilterByMaxRisk(ceiling).Items
	}
	if cleanAllSafe {
		st.SelectAllSafe(bulk)
	}
	if cleanCategory != "" {
		st.SelectCategory(bulk, model.Category(cleanCategory))
	}
	if maxRisk != "" {
		st.SelectUpToRisk(bulk, maxRisk)
	}

	var items []model.Item
	for _, path := range st.Selected() {
		if it, ok := set.Find(path); ok {
			items = append(items, it)
		}
	}
	return items, missing
}

// writeCleanReport saves the run report next to the terminal output;
// the format follows the file extension.
func writeCleanReport(path string, result model.CleanupResult) error {
	format := report.FormatJSON
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		format = report.FormatCSV
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteCleanup(f, result, format)
}

func recordHistory(cmd *cobra.Command, app *common.AppContext, result model.CleanupResult) {
	if app.History == nil {
		return
	}
	if err := app.History.Record(cmd.Context(), result); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history record failed: %v\n", err)
	}
}

func init() {
	cleanCmd.Flags().StringArrayVar(&cleanRootFlags, "root", nil, "Clean this directory instead of the discovered trash roots (repeatable)")
	cleanCmd.Flags().BoolVar(&cleanAllSafe, "all-safe", false, "Select every SAFE entry")
	cleanCmd.Flags().StringVar(&cleanCategory, "category", "", "Select every entry of this category")
	cleanCmd.Flags().StringVar(&cleanMaxRisk, "max-risk", "", "Select every entry at or below this risk level")
	cleanCmd.Flags().StringVar(&cleanReport, "report", "", "Also write the run report to this file (.json or .csv)")
}
