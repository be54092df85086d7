package sheet

import "github.com/tealeg/xlsx/v2"

// OpportunityRow is one line of the opportunities tab.
type OpportunityRow struct {
	Title   string
	Detail  string
	Savings string
}

const (
	opportunityFirstRow = 1 // row 2 in the template
	opportunityTitleCol = 1 // B
	opportunityTextCol  = 2 // C
	opportunityValueCol = 3 // D
	narrativeRow        = 1 // A2
	narrativeCol        = 0
)

func wrapStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Alignment.WrapText = true
	s.Alignment.Vertical = "top"
	s.ApplyAlignment = true
	return s
}

func boldStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Font.Bold = true
	s.ApplyFont = true
	return s
}

// WriteOpportunities fills the opportunities tab: one row per opportunity
// starting at row 2, then a bold total line after a blank row.
func (w *Workbook) WriteOpportunities(rows []OpportunityRow, total string) error {
	s, err := w.ensureSheet(w.layout.OpportunitiesSheet)
	if err != nil {
		return err
	}

	for i, r := range rows {
		idx := opportunityFirstRow + i
		s.Cell(idx, opportunityTitleCol).SetString(r.Title)
		detail := s.Cell(idx, opportunityTextCol)
		detail.SetString(r.Detail)
		detail.SetStyle(wrapStyle())
		s.Cell(idx, opportunityValueCol).SetString(r.Savings)
	}

	totalRow := opportunityFirstRow + len(rows) + 1
	label := s.Cell(totalRow, opportunityTitleCol)
	label.SetString("TOTAL ESTIMATED ANNUAL SAVINGS")
	label.SetStyle(boldStyle())
	value := s.Cell(totalRow, opportunityValueCol)
	value.SetString(total)
	value.SetStyle(boldStyle())
	return nil
}

// WriteMethodology writes the methodology narrative into A2 of its tab.
func (w *Workbook) WriteMethodology(text string) error {
	return w.writeNarrative(w.layout.MethodologySheet, text)
}

// WriteMemo writes the executive memo into A2 of its tab.
func (w *Workbook) WriteMemo(text string) error {
	return w.writeNarrative(w.layout.MemoSheet, text)
}

func (w *Workbook) writeNarrative(sheetName, text string) error {
	s, err := w.ensureSheet(sheetName)
	if err != nil {
		return err
	}
	c := s.Cell(narrativeRow, narrativeCol)
	c.SetString(text)
	c.SetStyle(wrapStyle())
	return nil
}
