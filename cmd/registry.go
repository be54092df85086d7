package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the curated vendor registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(cfg.Registry.File, registry.Options{Strict: cfg.Registry.Strict})
		if err != nil {
			return eris.Wrap(err, "registry list")
		}

		dept, _ := cmd.Flags().GetString("department")
		if dept != "" && !model.Department(dept).Valid() {
			return eris.Errorf("registry list: unknown department %q", dept)
		}

		entries := reg.Entries()
		if dept != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if string(e.Department) == dept {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		return formatRegistryList(cmd.OutOrStdout(), entries)
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the registry for duplicate and near-duplicate names",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Always load permissively so every conflict is reported.
		reg, err := registry.Load(cfg.Registry.File, registry.Options{})
		if err != nil {
			return eris.Wrap(err, "registry validate")
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Entries: %d\n", reg.Len()) //nolint:errcheck

		dups := reg.Duplicates()
		if len(dups) > 0 {
			fmt.Fprintf(out, "\nDuplicate names (%d):\n", len(dups)) //nolint:errcheck
			for _, d := range dups {
				kind := "identical"
				if d.Conflicting {
					kind = "CONFLICTING"
				}
				fmt.Fprintf(out, "  %s x%d (%s)\n", d.Name, d.Count, kind) //nolint:errcheck
			}
		}

		near := reg.NearDuplicates()
		if len(near) > 0 {
			fmt.Fprintf(out, "\nNear-duplicate names (%d groups):\n", len(near)) //nolint:errcheck
			for _, g := range near {
				fmt.Fprintf(out, "  %s\n", strings.Join(quoteAll(g), ", ")) //nolint:errcheck
			}
		}

		if reg.HasConflicts() {
			return eris.New("registry validate: conflicting duplicate definitions found")
		}
		fmt.Fprintln(out, "\nOK") //nolint:errcheck
		return nil
	},
}

func formatRegistryList(out io.Writer, entries []registry.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEPARTMENT\tRECOMMENDATION\tDESCRIPTION") //nolint:errcheck
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Department, e.Recommendation, e.Description) //nolint:errcheck
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d entries\n", len(entries)) //nolint:errcheck
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func init() {
	registryListCmd.Flags().String("department", "", "only list entries in this department")
	registryCmd.AddCommand(registryListCmd, registryValidateCmd)
	rootCmd.AddCommand(registryCmd)
}
