package registry

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NearDuplicates groups registered names that differ only by Unicode form,
// letter case or whitespace. Lookup never uses this folding; the groups are a
// data-quality report for curators.
func (r *Registry) NearDuplicates() [][]string {
	folder := cases.Fold()
	groups := make(map[string][]string)
	for name := range r.byName {
		key := foldName(folder, name)
		groups[key] = append(groups[key], name)
	}

	var out [][]string
	for _, names := range groups {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func foldName(folder cases.Caser, name string) string {
	s := norm.NFKC.String(name)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}
