package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/vendor-spend/internal/classify"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the keyword fallback rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fallback rules in priority order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fb, err := classify.LoadFallback(cfg.Classify.RulesFile)
		if err != nil {
			return eris.Wrap(err, "rules list")
		}
		return formatRules(cmd.OutOrStdout(), fb.Rules())
	},
}

func formatRules(out io.Writer, rules []classify.Rule) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRULE\tDEPARTMENT\tRECOMMENDATION\tKEYWORDS") //nolint:errcheck
	for i, r := range rules {
		keywords := strings.Join(r.Keywords, ", ")
		if len(r.Keywords) == 0 {
			keywords = "(catch-all)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name, r.Department, r.Recommendation, keywords) //nolint:errcheck
	}
	return w.Flush()
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rootCmd.AddCommand(rulesCmd)
}
