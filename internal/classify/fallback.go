package classify

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/model"
)

// Fallback classifies arbitrary names with an ordered, first-match-wins rule
// list terminated by an unconditional catch-all. It is total: every name
// yields a valid classification.
type Fallback struct {
	rules    []Rule
	catchAll Rule
}

// NewFallback validates the rules and catch-all. The catch-all description
// must interpolate the vendor name so unmatched vendors never share a
// description.
func NewFallback(rules []Rule, catchAll Rule) (*Fallback, error) {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, eris.Wrapf(err, "classify: rule %d", i)
		}
		if len(r.Keywords) == 0 {
			return nil, eris.Errorf("classify: rule %q has no keywords", r.Name)
		}
		if seen[r.Name] {
			return nil, eris.Errorf("classify: duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
	}

	if err := catchAll.validate(); err != nil {
		return nil, eris.Wrap(err, "classify: catch-all")
	}
	if len(catchAll.Keywords) != 0 {
		return nil, eris.New("classify: catch-all must not have keywords")
	}
	if !strings.Contains(catchAll.Description, NamePlaceholder) {
		return nil, eris.Errorf("classify: catch-all description must contain %s", NamePlaceholder)
	}

	own := make([]Rule, len(rules))
	for i, r := range rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		own[i] = r
	}
	return &Fallback{rules: own, catchAll: catchAll}, nil
}

// DefaultFallback returns the fallback built from DefaultRules and
// DefaultCatchAll.
func DefaultFallback() *Fallback {
	f, err := NewFallback(DefaultRules(), DefaultCatchAll())
	if err != nil {
		panic(err) // built-in rules are static
	}
	return f
}

// Classify returns the classification for name and the name of the rule that
// produced it.
func (f *Fallback) Classify(name string) (model.Classification, string) {
	lower := strings.ToLower(name)
	for _, r := range f.rules {
		if r.Matches(lower) {
			return r.Apply(name), r.Name
		}
	}
	return f.catchAll.Apply(name), f.catchAll.Name
}

// Rules returns the keyword rules in evaluation order followed by the
// catch-all.
func (f *Fallback) Rules() []Rule {
	out := make([]Rule, 0, len(f.rules)+1)
	for _, r := range f.rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out = append(out, r)
	}
	return append(out, f.catchAll)
}
