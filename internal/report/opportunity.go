package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/sheet"
)

// Rates are the fractions of spend expected to be saved under each
// recommendation.
type Rates struct {
	Terminate   float64 `yaml:"terminate" mapstructure:"terminate" json:"terminate"`
	Consolidate float64 `yaml:"consolidate" mapstructure:"consolidate" json:"consolidate"`
	Optimize    float64 `yaml:"optimize" mapstructure:"optimize" json:"optimize"`
}

// DefaultRates returns the benchmark savings rates.
func DefaultRates() Rates {
	return Rates{Terminate: 1.0, Consolidate: 0.35, Optimize: 0.10}
}

// For returns the rate for rec.
func (r Rates) For(rec model.Recommendation) float64 {
	switch rec {
	case model.RecommendationTerminate:
		return r.Terminate
	case model.RecommendationConsolidate:
		return r.Consolidate
	case model.RecommendationOptimize:
		return r.Optimize
	}
	return 0
}

// Validate checks every rate is within [0, 1].
func (r Rates) Validate() error {
	for _, rec := range model.Recommendations() {
		v := r.For(rec)
		if v < 0 || v > 1 {
			return eris.Errorf("report: %s rate %.2f outside [0, 1]", rec, v)
		}
	}
	return nil
}

// EstimatedSavings applies rates to the spend under each recommendation.
func EstimatedSavings(stats model.Stats, rates Rates) float64 {
	var total float64
	for _, rec := range model.Recommendations() {
		total += stats.RecommendationSpend[rec] * rates.For(rec)
	}
	return total
}

// Opportunity is one ranked department-level savings initiative.
type Opportunity struct {
	Rank           int                  `json:"rank"`
	Title          string               `json:"title"`
	Department     model.Department     `json:"department"`
	Recommendation model.Recommendation `json:"recommendation"`
	Rationale      string               `json:"rationale"`
	Spend          float64              `json:"spend"`
	Savings        float64              `json:"savings"`
	Vendors        int                  `json:"vendors"`
	TopVendors     []enrich.Row         `json:"top_vendors"`
}

// Plan is the ranked opportunity list and the sum of its savings.
type Plan struct {
	Opportunities []Opportunity `json:"opportunities"`
	Total         float64       `json:"total"`
}

// topVendorsPerOpportunity is how many vendors each rationale names.
const topVendorsPerOpportunity = 3

type deptSavings struct {
	dept    model.Department
	savings float64
	spend   float64
	vendors int
	byRec   map[model.Recommendation]float64
}

// Opportunities ranks departments by estimated savings and returns the top n.
// Departments with no estimated savings are never listed. Ties rank by
// department name.
func Opportunities(res *enrich.Result, rates Rates, n int) Plan {
	acc := make(map[model.Department]*deptSavings)
	for _, row := range res.Rows {
		d, ok := acc[row.Match.Department]
		if !ok {
			d = &deptSavings{dept: row.Match.Department, byRec: make(map[model.Recommendation]float64)}
			acc[row.Match.Department] = d
		}
		s := row.Cost() * rates.For(row.Match.Recommendation)
		d.savings += s
		d.spend += row.Cost()
		d.vendors++
		d.byRec[row.Match.Recommendation] += s
	}

	ranked := make([]*deptSavings, 0, len(acc))
	for _, d := range acc {
		if d.savings > 0 {
			ranked = append(ranked, d)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].savings != ranked[j].savings {
			return ranked[i].savings > ranked[j].savings
		}
		return ranked[i].dept < ranked[j].dept
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	var plan Plan
	for i, d := range ranked {
		rec := dominant(d.byRec)
		top := res.TopVendors(d.dept, topVendorsPerOpportunity)
		plan.Opportunities = append(plan.Opportunities, Opportunity{
			Rank:           i + 1,
			Title:          title(d.dept, rec),
			Department:     d.dept,
			Recommendation: rec,
			Rationale:      rationale(d, rec, top, res.Stats.TotalSpend),
			Spend:          d.spend,
			Savings:        d.savings,
			Vendors:        d.vendors,
			TopVendors:     top,
		})
		plan.Total += d.savings
	}
	return plan
}

// dominant returns the recommendation contributing the most savings, earlier
// recommendations winning ties.
func dominant(byRec map[model.Recommendation]float64) model.Recommendation {
	best := model.RecommendationOptimize
	bestV := -1.0
	for _, rec := range model.Recommendations() {
		if v := byRec[rec]; v > bestV {
			best, bestV = rec, v
		}
	}
	return best
}

func title(dept model.Department, rec model.Recommendation) string {
	switch rec {
	case model.RecommendationTerminate:
		return fmt.Sprintf("Eliminate Non-Essential %s Spend", dept)
	case model.RecommendationConsolidate:
		return fmt.Sprintf("%s Vendor Consolidation", dept)
	default:
		return fmt.Sprintf("%s Contract Optimization", dept)
	}
}

var actions = map[model.Recommendation]string{
	model.RecommendationTerminate:   "Exit these relationships at the next renewal or notice date.",
	model.RecommendationConsolidate: "Move overlapping vendors onto a preferred supplier and renegotiate on the combined volume.",
	model.RecommendationOptimize:    "Audit utilization and renegotiate tiers and terms at renewal.",
}

func rationale(d *deptSavings, rec model.Recommendation, top []enrich.Row, total float64) string {
	var b strings.Builder
	b.WriteString(printer.Sprintf("%s spend is %s (%s of total vendor spend) across %d vendors.",
		d.dept, Money(d.spend), Percent(share(d.spend, total)), d.vendors))
	if len(top) > 0 {
		names := make([]string, len(top))
		for i, r := range top {
			names[i] = fmt.Sprintf("%s %s", r.Record.Name, Money(r.Cost()))
		}
		b.WriteString(" Largest: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	b.WriteString(" ACTION: ")
	b.WriteString(actions[rec])
	return b.String()
}

// SheetRows converts the plan into opportunities tab rows.
func (p Plan) SheetRows() []sheet.OpportunityRow {
	rows := make([]sheet.OpportunityRow, len(p.Opportunities))
	for i, o := range p.Opportunities {
		rows[i] = sheet.OpportunityRow{
			Title:   o.Title,
			Detail:  o.Rationale,
			Savings: Money(o.Savings),
		}
	}
	return rows
}
