package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/mscore-cli/internal/export"
	"github.com/sells-group/mscore-cli/internal/ingest"
	"github.com/sells-group/mscore-cli/internal/model"
)

var analyzeTSV bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze one or more financial statements",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, priority, err := buildPipeline(ctx)
		if err != nil {
			return err
		}

		reports := make([]*model.ScoreReport, len(args))
		var mu sync.Mutex

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Pipeline.MaxConcurrentFiles)
		for i, path := range args {
			g.Go(func() error {
				doc, err := ingest.ReadFile(path)
				if err != nil {
					return err
				}
				report, err := p.Run(ctx, doc, priority)
				if err != nil {
					return eris.Wrapf(err, "analyze %s", path)
				}
				mu.Lock()
				reports[i] = report
				mu.Unlock()

				if cfg.Export.Dir != "" {
					if err := writeTSVFile(path, report); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, report := range reports {
			zap.L().Info("result",
				zap.String("company", report.Company),
				zap.String("risk", string(report.Risk)),
				zap.String("interpretation", report.Risk.Interpretation()),
			)
		}

		if analyzeTSV {
			for _, report := range reports {
				if _, err := os.Stdout.WriteString(export.RenderReport(report)); err != nil {
					return err
				}
			}
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	},
}

func writeTSVFile(inputPath string, report *model.ScoreReport) error {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(cfg.Export.Dir, base+".mscore.tsv")
	if err := os.WriteFile(out, []byte(export.RenderReport(report)), 0o644); err != nil {
		return eris.Wrap(err, "write tsv report")
	}
	zap.L().Info("report written", zap.String("path", out))
	return nil
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeTSV, "tsv", false, "print reports as tab-separated rows instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}
