package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/sheet"
	"github.com/sells-group/vendor-spend/internal/store"
)

func spendWorkbook(t *testing.T) string {
	t.Helper()
	return createTestXLSX(t, map[string][][]string{
		"Vendor Analysis Assessment": {
			{"Vendor Name", "Department", "Annual Cost", "Description", "Recommendation"},
			{"Salesforce Uk Ltd-Uk", "", "1000000"},
			{"Blue Law Partners", "", "$50,000"},
			{"", "", "999"},
			{"Riverside Karaoke Bar", "", "1200"},
		},
	})
}

func newTestAnalysis(t *testing.T, st store.Store, dryRun bool) (analysis, *bytes.Buffer) {
	t.Helper()
	env, err := initClassifier()
	require.NoError(t, err)
	var out bytes.Buffer
	return analysis{
		env:    env,
		store:  st,
		dryRun: dryRun,
		out:    &out,
		now:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}, &out
}

func TestRunAnalysis_WritesWorkbookAndCSV(t *testing.T) {
	useTestConfig(t)
	cfg.Workbook.Input = spendWorkbook(t)
	cfg.Workbook.Output = filepath.Join(t.TempDir(), "out.xlsx")
	cfg.Workbook.CSV = filepath.Join(t.TempDir(), "out.csv")

	a, out := newTestAnalysis(t, nil, false)
	outcome, err := runAnalysis(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Result.Stats.Classified)
	assert.Equal(t, 1, outcome.Result.Stats.Skipped)
	assert.Equal(t, 2, outcome.Result.Stats.FallbackCount)
	assert.InDelta(t, 1051200, outcome.Result.Stats.TotalSpend, 0.001)
	assert.Empty(t, outcome.RunID)
	assert.NotEmpty(t, outcome.Plan.Opportunities)

	assert.Contains(t, out.String(), "ANALYSIS SUMMARY")
	assert.Contains(t, out.String(), "Workbook written: "+cfg.Workbook.Output)
	assert.Contains(t, out.String(), "CSV written: "+cfg.Workbook.CSV)

	wb, err := sheet.Open(cfg.Workbook.Output, cfg.Workbook.Layout)
	require.NoError(t, err)
	assert.Len(t, wb.VendorRecords(), 4)

	_, err = os.Stat(cfg.Workbook.CSV)
	require.NoError(t, err)
}

func TestRunAnalysis_DryRunWritesNothing(t *testing.T) {
	useTestConfig(t)
	cfg.Workbook.Input = spendWorkbook(t)
	cfg.Workbook.Output = filepath.Join(t.TempDir(), "out.xlsx")

	a, out := newTestAnalysis(t, nil, true)
	_, err := runAnalysis(context.Background(), a)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Dry run: no files written.")
	_, err = os.Stat(cfg.Workbook.Output)
	assert.True(t, os.IsNotExist(err))
}

func TestRunAnalysis_RecordsRun(t *testing.T) {
	useTestConfig(t)
	cfg.Workbook.Input = spendWorkbook(t)
	cfg.Workbook.Output = filepath.Join(t.TempDir(), "out.xlsx")

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	a, out := newTestAnalysis(t, st, false)
	outcome, err := runAnalysis(ctx, a)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.RunID)
	assert.Contains(t, out.String(), "Run recorded: "+outcome.RunID)

	run, err := st.GetRun(ctx, outcome.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 3, run.Summary.Stats.Classified)
	assert.InDelta(t, outcome.Savings, run.Summary.EstimatedSavings, 0.001)

	vendors, err := st.ListVendors(ctx, outcome.RunID)
	require.NoError(t, err)
	require.Len(t, vendors, 3)
	assert.Equal(t, "Salesforce Uk Ltd-Uk", vendors[0].Name)
	assert.Equal(t, model.SourceRegistry, vendors[0].Source)
	assert.Equal(t, model.SourceFallback, vendors[1].Source)
	assert.Equal(t, "legal", vendors[1].Rule)
}

func TestRunAnalysis_FailureMarksRun(t *testing.T) {
	useTestConfig(t)
	cfg.Workbook.Input = filepath.Join(t.TempDir(), "missing.xlsx")
	cfg.Workbook.Output = filepath.Join(t.TempDir(), "out.xlsx")

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	a, _ := newTestAnalysis(t, st, false)
	_, err = runAnalysis(ctx, a)
	require.Error(t, err)

	runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Error, "open workbook")
}

// brokenStore fails the write named by failOn and delegates everything else.
type brokenStore struct {
	store.Store
	failOn string
}

func (s brokenStore) SaveVendors(ctx context.Context, runID string, vendors []model.RunVendor) (int64, error) {
	if s.failOn == "save" {
		return 0, eris.New("disk full")
	}
	return s.Store.SaveVendors(ctx, runID, vendors)
}

func (s brokenStore) CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error {
	if s.failOn == "complete" {
		return eris.New("disk full")
	}
	return s.Store.CompleteRun(ctx, runID, summary)
}

func TestRunAnalysis_StoreWriteFailureMarksRun(t *testing.T) {
	tests := []struct {
		failOn  string
		wantErr string
	}{
		{failOn: "save", wantErr: "save vendors"},
		{failOn: "complete", wantErr: "complete run"},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			useTestConfig(t)
			cfg.Workbook.Input = spendWorkbook(t)
			cfg.Workbook.Output = filepath.Join(t.TempDir(), "out.xlsx")

			st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = st.Close() })
			ctx := context.Background()
			require.NoError(t, st.Migrate(ctx))

			a, out := newTestAnalysis(t, brokenStore{Store: st, failOn: tt.failOn}, false)
			_, err = runAnalysis(ctx, a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, out.String(), "Run recorded")

			runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatusFailed})
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Contains(t, runs[0].Error, tt.wantErr)

			running, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatusRunning})
			require.NoError(t, err)
			assert.Empty(t, running)
		})
	}
}

func TestRunVendors(t *testing.T) {
	useTestConfig(t)
	env, err := initClassifier()
	require.NoError(t, err)

	c := 10.0
	m := env.Classifier.Classify("Acme Notary Services")
	rows := runVendors([]enrich.Row{{Record: model.VendorRecord{Row: 4, Name: "Acme Notary Services", Cost: &c}, Match: m}})
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Row)
	assert.Equal(t, &c, rows[0].Cost)
	assert.Equal(t, model.DepartmentLegal, rows[0].Department)
	assert.Equal(t, "legal", rows[0].Rule)
}
