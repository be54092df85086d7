package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/report"
	"github.com/sells-group/vendor-spend/internal/sheet"
	"github.com/sells-group/vendor-spend/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify the workbook's vendors and write the report tabs",
	Long:  "Reads vendor rows from the assessment sheet, fills in department, description and recommendation for each, then writes the opportunities, methodology and memo tabs to the output workbook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if v, _ := cmd.Flags().GetString("input"); v != "" {
			cfg.Workbook.Input = v
		}
		if v, _ := cmd.Flags().GetString("output"); v != "" {
			cfg.Workbook.Output = v
		}
		if v, _ := cmd.Flags().GetString("csv"); v != "" {
			cfg.Workbook.CSV = v
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if err := cfg.Validate("analyze"); err != nil {
			return eris.Wrap(err, "analyze: invalid config")
		}
		if cfg.Workbook.Output == "" {
			cfg.Workbook.Output = defaultOutputPath(cfg.Workbook.Input)
		}

		env, err := initClassifier()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "analyze: init store")
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		_, err = runAnalysis(ctx, analysis{
			env:    env,
			store:  st,
			dryRun: dryRun,
			out:    cmd.OutOrStdout(),
			now:    time.Now(),
		})
		return err
	},
}

// analysis is one invocation of the analysis pass.
type analysis struct {
	env    *classifierEnv
	store  store.Store
	dryRun bool
	out    io.Writer
	now    time.Time
}

// analysisOutcome is what a successful pass produced.
type analysisOutcome struct {
	RunID   string
	Result  *enrich.Result
	Plan    report.Plan
	Savings float64
}

// runAnalysis records a run around the pass when a store is configured and
// marks it failed when the pass errors.
func runAnalysis(ctx context.Context, a analysis) (*analysisOutcome, error) {
	input := model.RunInput{
		InputPath: cfg.Workbook.Input,
		DryRun:    a.dryRun,
	}
	if !a.dryRun {
		input.OutputPath = cfg.Workbook.Output
	}

	var runID string
	if a.store != nil {
		run, err := a.store.CreateRun(ctx, input)
		if err != nil {
			return nil, eris.Wrap(err, "analyze: create run")
		}
		runID = run.ID
	}

	fail := func(err error) error {
		if a.store != nil {
			if ferr := a.store.FailRun(ctx, runID, err.Error()); ferr != nil {
				zap.L().Error("analyze: mark run failed", zap.String("run_id", runID), zap.Error(ferr))
			}
		}
		return err
	}

	outcome, err := analyzeWorkbook(ctx, a)
	if err != nil {
		return nil, fail(err)
	}
	outcome.RunID = runID

	if a.store != nil {
		if _, err := a.store.SaveVendors(ctx, runID, runVendors(outcome.Result.Rows)); err != nil {
			return nil, fail(eris.Wrap(err, "analyze: save vendors"))
		}
		summary := &model.RunSummary{
			Stats:            outcome.Result.Stats,
			EstimatedSavings: outcome.Savings,
			RegistrySize:     a.env.Registry.Len(),
		}
		if err := a.store.CompleteRun(ctx, runID, summary); err != nil {
			return nil, fail(eris.Wrap(err, "analyze: complete run"))
		}
		fmt.Fprintf(a.out, "\nRun recorded: %s\n", runID) //nolint:errcheck
	}

	return outcome, nil
}

func analyzeWorkbook(ctx context.Context, a analysis) (*analysisOutcome, error) {
	wb, err := sheet.Open(cfg.Workbook.Input, cfg.Workbook.Layout)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: open workbook")
	}

	records := wb.VendorRecords()
	zap.L().Info("analyze: read vendor rows",
		zap.String("input", cfg.Workbook.Input),
		zap.Int("rows", len(records)),
	)

	res := enrich.New(a.env.Classifier).Run(records)
	rates := cfg.Report.Rates
	savings := report.EstimatedSavings(res.Stats, rates)
	plan := report.Opportunities(res, rates, cfg.Report.Opportunities)

	if !a.dryRun {
		if err := writeReport(ctx, wb, res, plan, a); err != nil {
			return nil, err
		}
	}

	if err := report.Summary(a.out, res, savings); err != nil {
		return nil, err
	}
	if a.dryRun {
		fmt.Fprintln(a.out, "\nDry run: no files written.") //nolint:errcheck
	} else {
		fmt.Fprintf(a.out, "\nWorkbook written: %s\n", cfg.Workbook.Output) //nolint:errcheck
		if cfg.Workbook.CSV != "" {
			fmt.Fprintf(a.out, "CSV written: %s\n", cfg.Workbook.CSV) //nolint:errcheck
		}
	}

	return &analysisOutcome{Result: res, Plan: plan, Savings: savings}, nil
}

func writeReport(ctx context.Context, wb *sheet.Workbook, res *enrich.Result, plan report.Plan, a analysis) error {
	header := cfg.Report.Memo
	if header.Date == "" {
		header.Date = a.now.Format("January 2006")
	}

	methodology, err := report.Methodology(res, a.env.Fallback.Rules(), cfg.Report.Rates)
	if err != nil {
		return err
	}
	memo, err := report.Memo(res, plan, header)
	if err != nil {
		return err
	}

	wb.WriteClassifications(res.Rows)
	if err := wb.WriteOpportunities(plan.SheetRows(), report.Money(plan.Total)); err != nil {
		return eris.Wrap(err, "analyze: write opportunities")
	}
	if err := wb.WriteMethodology(methodology); err != nil {
		return eris.Wrap(err, "analyze: write methodology")
	}
	if err := wb.WriteMemo(memo); err != nil {
		return eris.Wrap(err, "analyze: write memo")
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wb.Save(cfg.Workbook.Output)
	})
	if cfg.Workbook.CSV != "" {
		g.Go(func() error {
			return sheet.WriteCSV(cfg.Workbook.CSV, res.Rows)
		})
	}
	return g.Wait()
}

// defaultOutputPath derives "<input>_completed.xlsx" next to the input.
func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_completed.xlsx"
}

func runVendors(rows []enrich.Row) []model.RunVendor {
	out := make([]model.RunVendor, len(rows))
	for i, r := range rows {
		out[i] = model.RunVendor{
			Row:            r.Record.Row,
			Name:           r.Record.Name,
			Cost:           r.Record.Cost,
			Department:     r.Match.Department,
			Description:    r.Match.Description,
			Recommendation: r.Match.Recommendation,
			Source:         r.Match.Source,
			Rule:           r.Match.Rule,
		}
	}
	return out
}

func init() {
	analyzeCmd.Flags().String("input", "", "path to the procurement workbook (overrides workbook.input)")
	analyzeCmd.Flags().String("output", "", "path for the completed workbook (default: <input>_completed.xlsx)")
	analyzeCmd.Flags().String("csv", "", "also export classified rows to this CSV file")
	analyzeCmd.Flags().Bool("dry-run", false, "classify and summarize without writing any files")
	rootCmd.AddCommand(analyzeCmd)
}
