package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/mscore-cli/internal/export"
	"github.com/sells-group/mscore-cli/internal/model"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <report.json>",
	Short: "Convert a saved JSON score report to tab-separated rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read report")
		}
		var report model.ScoreReport
		if err := json.Unmarshal(data, &report); err != nil {
			return eris.Wrap(err, "parse report")
		}

		tsv := export.RenderReport(&report)
		if exportOut == "" {
			_, err := os.Stdout.WriteString(tsv)
			return err
		}
		if err := os.WriteFile(exportOut, []byte(tsv), 0o644); err != nil {
			return eris.Wrap(err, "write tsv")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
