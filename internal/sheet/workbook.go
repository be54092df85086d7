// Package sheet reads vendor records from the procurement workbook and writes
// classifications and report tabs back into it.
package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
)

// Layout names the sheets and columns of the workbook. Columns are
// spreadsheet letters ("A", "C", "AA").
type Layout struct {
	AssessmentSheet    string `yaml:"assessment_sheet" mapstructure:"assessment_sheet"`
	OpportunitiesSheet string `yaml:"opportunities_sheet" mapstructure:"opportunities_sheet"`
	MethodologySheet   string `yaml:"methodology_sheet" mapstructure:"methodology_sheet"`
	MemoSheet          string `yaml:"memo_sheet" mapstructure:"memo_sheet"`

	NameColumn           string `yaml:"name_column" mapstructure:"name_column"`
	DepartmentColumn     string `yaml:"department_column" mapstructure:"department_column"`
	CostColumn           string `yaml:"cost_column" mapstructure:"cost_column"`
	DescriptionColumn    string `yaml:"description_column" mapstructure:"description_column"`
	RecommendationColumn string `yaml:"recommendation_column" mapstructure:"recommendation_column"`

	HeaderRows int `yaml:"header_rows" mapstructure:"header_rows"`
}

// DefaultLayout matches the vendor spend strategy template.
func DefaultLayout() Layout {
	return Layout{
		AssessmentSheet:      "Vendor Analysis Assessment",
		OpportunitiesSheet:   "Top 3 Opportunities",
		MethodologySheet:     "Methodology",
		MemoSheet:            "CEOCFO Recommendations",
		NameColumn:           "A",
		DepartmentColumn:     "B",
		CostColumn:           "C",
		DescriptionColumn:    "D",
		RecommendationColumn: "E",
		HeaderRows:           1,
	}
}

type columns struct {
	name, department, cost, description, recommendation int
}

// Workbook is an open procurement workbook.
type Workbook struct {
	file   *xlsx.File
	layout Layout
	cols   columns
}

// Open reads the workbook at path. The assessment sheet must exist.
func Open(path string, layout Layout) (*Workbook, error) {
	cols, err := resolveColumns(layout)
	if err != nil {
		return nil, err
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open workbook")
	}
	if _, ok := f.Sheet[layout.AssessmentSheet]; !ok {
		return nil, eris.Errorf("sheet: assessment sheet %q not found", layout.AssessmentSheet)
	}

	return &Workbook{file: f, layout: layout, cols: cols}, nil
}

func resolveColumns(layout Layout) (columns, error) {
	var c columns
	for _, col := range []struct {
		letters string
		dst     *int
	}{
		{layout.NameColumn, &c.name},
		{layout.DepartmentColumn, &c.department},
		{layout.CostColumn, &c.cost},
		{layout.DescriptionColumn, &c.description},
		{layout.RecommendationColumn, &c.recommendation},
	} {
		idx, err := ColumnIndex(col.letters)
		if err != nil {
			return c, err
		}
		*col.dst = idx
	}
	if layout.HeaderRows < 0 {
		return c, eris.Errorf("sheet: header rows must not be negative, got %d", layout.HeaderRows)
	}
	return c, nil
}

// ColumnIndex converts spreadsheet column letters to a 0-based index.
func ColumnIndex(letters string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(letters))
	if s == "" {
		return 0, eris.New("sheet: empty column")
	}
	idx := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, eris.Errorf("sheet: invalid column %q", letters)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// VendorRecords reads the assessment sheet below the header rows, in row
// order. Rows with a blank name are returned as-is; deciding to skip them is
// the caller's concern.
func (w *Workbook) VendorRecords() []model.VendorRecord {
	sheet := w.file.Sheet[w.layout.AssessmentSheet]

	var records []model.VendorRecord
	for i, row := range sheet.Rows {
		if i < w.layout.HeaderRows {
			continue
		}
		if row == nil {
			continue
		}
		records = append(records, model.VendorRecord{
			Row:  i,
			Name: cellString(row, w.cols.name),
			Cost: parseCost(row, w.cols.cost, i),
		})
	}
	return records
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cellAt(row *xlsx.Row, col int) *xlsx.Cell {
	if col >= len(row.Cells) {
		return nil
	}
	return row.Cells[col]
}

func cellString(row *xlsx.Row, col int) string {
	c := cellAt(row, col)
	if c == nil {
		return ""
	}
	return c.String()
}

// parseCost returns nil for a blank cell. Text that is not a finite number,
// even after removing currency symbols and thousands separators, is also
// treated as missing; "NaN" and "Inf" parse as floats but are not costs.
func parseCost(row *xlsx.Row, col, rowIdx int) *float64 {
	c := cellAt(row, col)
	if c == nil || strings.TrimSpace(c.Value) == "" {
		return nil
	}
	if v, err := c.Float(); err == nil && finite(v) {
		return &v
	}

	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(c.Value))
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil && finite(v) {
		return &v
	}

	zap.L().Warn("sheet: unreadable cost, treating as missing",
		zap.Int("row", rowIdx+1),
		zap.String("value", c.Value),
	)
	return nil
}

// WriteClassifications writes department, description and recommendation at
// each row's original position.
func (w *Workbook) WriteClassifications(rows []enrich.Row) {
	sheet := w.file.Sheet[w.layout.AssessmentSheet]
	for _, r := range rows {
		sheet.Cell(r.Record.Row, w.cols.department).SetString(string(r.Match.Department))
		sheet.Cell(r.Record.Row, w.cols.description).SetString(r.Match.Description)
		sheet.Cell(r.Record.Row, w.cols.recommendation).SetString(string(r.Match.Recommendation))
	}
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	if err := w.file.Save(path); err != nil {
		return eris.Wrapf(err, "sheet: save %s", path)
	}
	return nil
}

// ensureSheet returns the named sheet, adding it when the workbook lacks it.
func (w *Workbook) ensureSheet(name string) (*xlsx.Sheet, error) {
	if s, ok := w.file.Sheet[name]; ok {
		return s, nil
	}
	s, err := w.file.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: add sheet %q", name)
	}
	return s, nil
}
