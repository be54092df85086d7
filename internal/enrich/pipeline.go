// Package enrich runs the single-pass classification of vendor records and
// accumulates spend statistics.
package enrich

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/model"
)

// Classifier resolves a trimmed vendor name to a classification.
type Classifier interface {
	Classify(name string) classify.Match
}

// Row is one classified vendor record.
type Row struct {
	Record model.VendorRecord `json:"record"`
	Match  classify.Match     `json:"match"`
}

// Cost returns the row's cost, zero when the record had none.
func (r Row) Cost() float64 {
	return r.Record.CostOrZero()
}

// Result holds the classified rows in input order and the pass totals.
type Result struct {
	Rows  []Row       `json:"rows"`
	Stats model.Stats `json:"stats"`
}

// Pipeline classifies vendor records one at a time, in input order.
type Pipeline struct {
	classifier Classifier
}

// New returns a Pipeline that classifies with c.
func New(c Classifier) *Pipeline {
	return &Pipeline{classifier: c}
}

// Run classifies every record with a non-blank name. Records without a name
// are skipped entirely; a missing cost counts as zero. Run keeps no state
// between calls.
func (p *Pipeline) Run(records []model.VendorRecord) *Result {
	res := &Result{Stats: model.NewStats()}

	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			res.Stats.Skip()
			continue
		}
		rec.Name = name

		m := p.classifier.Classify(name)
		cost := rec.CostOrZero()
		res.Stats.Add(m.Classification, m.Source, cost)
		res.Rows = append(res.Rows, Row{Record: rec, Match: m})

		zap.L().Debug("enrich: classified vendor",
			zap.String("vendor", name),
			zap.String("department", string(m.Department)),
			zap.String("recommendation", string(m.Recommendation)),
			zap.String("source", string(m.Source)),
			zap.Float64("cost", cost),
		)
	}

	zap.L().Info("enrich: pass complete",
		zap.Int("classified", res.Stats.Classified),
		zap.Int("fallback", res.Stats.FallbackCount),
		zap.Int("skipped", res.Stats.Skipped),
		zap.Float64("total_spend", res.Stats.TotalSpend),
	)

	return res
}

// TopVendors returns up to n rows for dept ordered by descending cost. Ties
// keep input order.
func (r *Result) TopVendors(dept model.Department, n int) []Row {
	var rows []Row
	for _, row := range r.Rows {
		if row.Match.Department == dept {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Cost() > rows[j].Cost() })
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Largest returns the highest-cost row, or false when there are no rows.
func (r *Result) Largest() (Row, bool) {
	if len(r.Rows) == 0 {
		return Row{}, false
	}
	best := r.Rows[0]
	for _, row := range r.Rows[1:] {
		if row.Cost() > best.Cost() {
			best = row
		}
	}
	return best, true
}
