package sheet

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/enrich"
)

var csvColumns = []string{
	"Row",
	"Vendor",
	"Cost",
	"Department",
	"Description",
	"Recommendation",
	"Source",
	"Rule",
}

// WriteCSV exports classified rows, one line per vendor, to path. Row numbers
// are 1-based to match the spreadsheet.
func WriteCSV(path string, rows []enrich.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv export: create file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "csv export: close file")
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return eris.Wrap(err, "csv export: write header")
	}

	for _, r := range rows {
		cost := ""
		if r.Record.Cost != nil {
			cost = strconv.FormatFloat(*r.Record.Cost, 'f', 2, 64)
		}
		line := []string{
			strconv.Itoa(r.Record.Row + 1),
			r.Record.Name,
			cost,
			string(r.Match.Department),
			r.Match.Description,
			string(r.Match.Recommendation),
			string(r.Match.Source),
			r.Match.Rule,
		}
		if err := w.Write(line); err != nil {
			return eris.Wrap(err, "csv export: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv export: flush")
	}
	return nil
}
