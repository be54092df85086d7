// Package registry holds the curated exact-match table of vendor
// classifications.
package registry

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-spend/internal/model"
)

// Entry is one curated vendor definition as authored in the registry data.
type Entry struct {
	Name           string               `yaml:"name" json:"name"`
	Department     model.Department     `yaml:"department" json:"department"`
	Description    string               `yaml:"description" json:"description"`
	Recommendation model.Recommendation `yaml:"recommendation" json:"recommendation"`
}

// Classification returns the entry's classification triple.
func (e Entry) Classification() model.Classification {
	return model.Classification{
		Department:     e.Department,
		Description:    e.Description,
		Recommendation: e.Recommendation,
	}
}

// Options controls registry construction.
type Options struct {
	// Strict rejects a key that is defined more than once with different
	// classifications. Without it the later definition wins.
	Strict bool
}

// Duplicate describes a vendor name defined more than once in the source data.
type Duplicate struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	Conflicting bool   `json:"conflicting"`
}

// Registry is an immutable index from exact vendor name to classification.
type Registry struct {
	byName     map[string]model.Classification
	duplicates []Duplicate
}

// New validates entries and builds a Registry. Keys are used exactly as
// given: no case, whitespace or Unicode normalization is applied.
func New(entries []Entry, opts Options) (*Registry, error) {
	r := &Registry{byName: make(map[string]model.Classification, len(entries))}
	counts := make(map[string]int)
	conflicts := make(map[string]bool)

	for i, e := range entries {
		if e.Name == "" {
			return nil, eris.Errorf("registry: entry %d has no name", i)
		}
		c := e.Classification()
		if err := c.Validate(); err != nil {
			return nil, eris.Wrapf(err, "registry: entry %q", e.Name)
		}

		counts[e.Name]++
		prev, seen := r.byName[e.Name]
		if seen && prev != c {
			if opts.Strict {
				return nil, eris.Errorf("registry: conflicting definitions for %q", e.Name)
			}
			conflicts[e.Name] = true
			zap.L().Warn("registry: conflicting duplicate vendor key, later definition wins",
				zap.String("vendor", e.Name),
				zap.String("previous_department", string(prev.Department)),
				zap.String("department", string(c.Department)),
			)
		} else if seen {
			zap.L().Warn("registry: redundant duplicate vendor key",
				zap.String("vendor", e.Name),
			)
		}
		r.byName[e.Name] = c
	}

	for name, n := range counts {
		if n > 1 {
			r.duplicates = append(r.duplicates, Duplicate{Name: name, Count: n, Conflicting: conflicts[name]})
		}
	}
	sort.Slice(r.duplicates, func(i, j int) bool { return r.duplicates[i].Name < r.duplicates[j].Name })

	return r, nil
}

// Lookup returns the curated classification for name, or false when the
// name is not registered.
func (r *Registry) Lookup(name string) (model.Classification, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Len returns the number of distinct vendor names.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Names returns every registered vendor name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns the effective entries (after duplicate resolution) sorted
// by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		c := r.byName[n]
		out = append(out, Entry{
			Name:           n,
			Department:     c.Department,
			Description:    c.Description,
			Recommendation: c.Recommendation,
		})
	}
	return out
}

// Duplicates lists every key that was defined more than once.
func (r *Registry) Duplicates() []Duplicate {
	out := make([]Duplicate, len(r.duplicates))
	copy(out, r.duplicates)
	return out
}

// HasConflicts reports whether any duplicate key carried differing
// classifications.
func (r *Registry) HasConflicts() bool {
	for _, d := range r.duplicates {
		if d.Conflicting {
			return true
		}
	}
	return false
}
