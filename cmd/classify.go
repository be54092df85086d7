package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/vendor-spend/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [vendor...]",
	Short: "Classify vendor names without a workbook",
	Long:  "Classifies each vendor name given as an argument, or one name per line on stdin when no arguments are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("classify"); err != nil {
			return eris.Wrap(err, "classify: invalid config")
		}

		names := args
		if len(names) == 0 {
			var err error
			names, err = readNames(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}
		if len(names) == 0 {
			return eris.New("classify: no vendor names given")
		}

		env, err := initClassifier()
		if err != nil {
			return err
		}

		results := make([]classifiedName, 0, len(names))
		for _, n := range names {
			name := strings.TrimSpace(n)
			if name == "" {
				continue
			}
			results = append(results, classifiedName{Name: name, Match: env.Classifier.Classify(name)})
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		return formatClassified(cmd.OutOrStdout(), results)
	},
}

type classifiedName struct {
	Name string `json:"name"`
	classify.Match
}

func readNames(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "classify: read stdin")
	}
	return names, nil
}

func formatClassified(out io.Writer, results []classifiedName) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VENDOR\tDEPARTMENT\tRECOMMENDATION\tSOURCE\tDESCRIPTION") //nolint:errcheck
	for _, r := range results {
		source := string(r.Source)
		if r.Rule != "" {
			source += ":" + r.Rule
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Department, r.Recommendation, source, r.Description) //nolint:errcheck
	}
	return w.Flush()
}

func init() {
	classifyCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(classifyCmd)
}
