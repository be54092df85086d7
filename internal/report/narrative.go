package report

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":    Money,
	"compact":  Compact,
	"pct":      Percent,
	"fraction": Fraction,
	"upper":    Upper,
	"join":     strings.Join,
	"inc":      func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.tmpl"))

// MemoHeader addresses the executive memo.
type MemoHeader struct {
	To      string `yaml:"to" mapstructure:"to"`
	From    string `yaml:"from" mapstructure:"from"`
	Subject string `yaml:"subject" mapstructure:"subject"`
	Date    string `yaml:"date" mapstructure:"date"`
}

// DefaultMemoHeader returns the header used when none is configured. Date is
// left for the caller.
func DefaultMemoHeader() MemoHeader {
	return MemoHeader{
		To:      "CEO & CFO",
		From:    "VP of Operations",
		Subject: "Vendor Spend Optimization: Findings & Recommendations",
	}
}

type recTally struct {
	Recommendation model.Recommendation
	Count          int
	Spend          float64
}

type narrativeData struct {
	Vendors            int
	Skipped            int
	Fallback           int
	RegistryHits       int
	TotalSpend         float64
	Largest            *enrich.Row
	LargestShare       float64
	TopDepartment      *model.DepartmentTotal
	TopDepartmentShare float64
	Departments        []string
	Recommendations    []recTally
	Terminate          recTally
	Consolidate        recTally
	Optimize           recTally

	// methodology
	Rules        []classify.Rule
	CatchAll     *classify.Rule
	Rates        Rates
	Savings      float64
	SavingsShare float64

	// memo
	Header    MemoHeader
	Plan      Plan
	PlanShare float64
}

func newNarrativeData(res *enrich.Result) narrativeData {
	s := res.Stats
	d := narrativeData{
		Vendors:      s.Classified,
		Skipped:      s.Skipped,
		Fallback:     s.FallbackCount,
		RegistryHits: s.Classified - s.FallbackCount,
		TotalSpend:   s.TotalSpend,
	}
	if row, ok := res.Largest(); ok {
		d.Largest = &row
		d.LargestShare = share(row.Cost(), s.TotalSpend)
	}
	if depts := s.DepartmentsBySpend(); len(depts) > 0 {
		d.TopDepartment = &depts[0]
		d.TopDepartmentShare = s.DepartmentShare(depts[0].Department)
	}
	for _, dept := range model.Departments() {
		d.Departments = append(d.Departments, string(dept))
	}
	for _, rec := range model.Recommendations() {
		t := recTally{Recommendation: rec, Count: s.RecommendationCounts[rec], Spend: s.RecommendationSpend[rec]}
		d.Recommendations = append(d.Recommendations, t)
		switch rec {
		case model.RecommendationTerminate:
			d.Terminate = t
		case model.RecommendationConsolidate:
			d.Consolidate = t
		case model.RecommendationOptimize:
			d.Optimize = t
		}
	}
	return d
}

// Methodology renders the methodology narrative. rules is the effective
// ordered rule list; a rule without keywords is reported as the catch-all.
func Methodology(res *enrich.Result, rules []classify.Rule, rates Rates) (string, error) {
	d := newNarrativeData(res)
	for i := range rules {
		if len(rules[i].Keywords) == 0 {
			d.CatchAll = &rules[i]
			continue
		}
		d.Rules = append(d.Rules, rules[i])
	}
	d.Rates = rates
	d.Savings = EstimatedSavings(res.Stats, rates)
	d.SavingsShare = share(d.Savings, res.Stats.TotalSpend)
	return render("methodology.tmpl", d)
}

// Memo renders the executive memo for plan.
func Memo(res *enrich.Result, plan Plan, header MemoHeader) (string, error) {
	d := newNarrativeData(res)
	d.Header = header
	d.Plan = plan
	d.PlanShare = share(plan.Total, res.Stats.TotalSpend)
	return render("memo.tmpl", d)
}

func render(name string, data narrativeData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", eris.Wrapf(err, "report: render %s", name)
	}
	return buf.String(), nil
}
