package report

import (
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/enrich"
	"github.com/sells-group/vendor-spend/internal/model"
)

var rule = strings.Repeat("=", 60)

// Summary prints the end-of-pass console summary.
func Summary(w io.Writer, res *enrich.Result, savings float64) error {
	s := res.Stats

	printer.Fprintf(w, "\n%s\nANALYSIS SUMMARY\n%s\n", rule, rule)
	printer.Fprintf(w, "Total vendors analyzed: %d (%d via fallback rules", s.Classified, s.FallbackCount)
	if s.Skipped > 0 {
		printer.Fprintf(w, ", %d blank rows skipped", s.Skipped)
	}
	printer.Fprintf(w, ")\n")
	printer.Fprintf(w, "Total annual spend: %s\n", MoneyCents(s.TotalSpend))

	printer.Fprintf(w, "\nRecommendations breakdown:\n")
	for _, rec := range model.Recommendations() {
		printer.Fprintf(w, "  %s: %d vendors (%s)\n", rec, s.RecommendationCounts[rec], MoneyCents(s.RecommendationSpend[rec]))
	}

	printer.Fprintf(w, "\nDepartment spend breakdown:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, d := range s.DepartmentsBySpend() {
		printer.Fprintf(tw, "  %s:\t%s\t(%s)\t\n", d.Department, MoneyCents(d.Spend), Percent(s.DepartmentShare(d.Department)))
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: write summary")
	}

	printer.Fprintf(w, "\nEstimated total annual savings: %s\n", Money(savings))
	printer.Fprintf(w, "Savings as %% of total spend: %s\n", Percent(share(savings, s.TotalSpend)))
	return nil
}
