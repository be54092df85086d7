package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/vendor-spend/internal/config"
)

// useTestConfig installs a default config with run history disabled for the
// duration of the test.
func useTestConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	c, err := config.Load()
	require.NoError(t, err)
	c.Store.Driver = config.DriverNone
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "spend.xlsx")
	require.NoError(t, f.Save(path))
	return path
}
