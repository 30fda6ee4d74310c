package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"binsweep/internal/app/common"
	"binsweep/internal/app/scan"
	"binsweep/internal/domain/model"
)

var scanRootFlags []string
var scanSort string
var scanCategory string
var scanMaxRisk string
var scanMinSize uint64
var scanMaxSize uint64

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan trash directories and assess deletion risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		switch scanSort {
		case "name", "size", "mtime", "risk":
		default:
			return fmt.Errorf("--sort must be one of: name, size, mtime, risk")
		}
		maxRisk, err := parseRiskFlag(scanMaxRisk)
		if err != nil {
			return err
		}

		svc := scan.NewService()
		set, err := svc.Run(cmd.Context(), app, scanRoots(app, scanRootFlags))
		if err != nil {
			return err
		}

		if scanCategory != "" {
			set = set.FilterByCategory(model.Category(scanCategory))
		}
		if maxRisk != "" {
			set = set.FilterByMaxRisk(maxRisk)
		}
		if scanMinSize > 0 || scanMaxSize > 0 {
			set = set.FilterBySizeRange(scanMinSize, scanMaxSize)
		}
		set = set.SortBy(model.SortField(scanSort))
		return printResult(set)
	},
}

func parseRiskFlag(s string) (model.RiskLevel, error) {
	if s == "" {
		return "", nil
	}
	switch lv := model.RiskLevel(s); lv {
	case model.RiskSafe, model.RiskLow, model.RiskMedium, model.RiskHigh, model.RiskCritical:
		return lv, nil
	}
	return "", fmt.Errorf("--max-risk must be one of: SAFE, LOW, MEDIUM, HIGH, CRITICAL")
}

func init() {
	scanCmd.Flags().StringArrayVar(&scanRootFlags, "root", nil, "Scan this directory instead of the discovered trash roots (repeatable)")
	scanCmd.Flags().StringVar(&scanSort, "sort", "risk", "Sort by: name, size, mtime, risk")
	scanCmd.Flags().StringVar(&scanCategory, "category", "", "Only show entries of this category")
	scanCmd.Flags().StringVar(&scanMaxRisk, "max-risk", "", "Only show entries at or below this risk level")
	scanCmd.Flags().Uint64Var(&scanMinSize, "min-size", 0, "Minimum entry size in bytes")
	scanCmd.Flags().Uint64Var(&scanMaxSize, "max-size", 0, "Maximum entry size in bytes (0 = unlimited)")
}
