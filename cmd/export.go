package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"binsweep/internal/app/common"
	"binsweep/internal/app/report"
	"binsweep/internal/app/scan"
	"binsweep/internal/domain/model"
)

var exportRootFlags []string
var exportFormat string
var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a scan report as JSON or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		set, err := scan.NewService().Run(cmd.Context(), app, scanRoots(app, exportRootFlags))
		if err != nil {
			return err
		}
		set = set.SortBy(model.SortByRisk)

		out := os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return report.WriteScan(out, set, format)
	},
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportRootFlags, "root", nil, "Export this directory instead of the discovered trash roots (repeatable)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}
