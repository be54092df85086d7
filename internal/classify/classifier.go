package classify

import "github.com/sells-group/vendor-spend/internal/model"

// Lookup is the exact-match source consulted before the fallback rules.
type Lookup interface {
	Lookup(name string) (model.Classification, bool)
}

// Match is the outcome of classifying one vendor name.
type Match struct {
	model.Classification
	Source model.Source `json:"source"`
	Rule   string       `json:"rule,omitempty"` // fallback rule name; empty for registry hits
}

// Classifier resolves names against a curated lookup, then the fallback.
type Classifier struct {
	lookup   Lookup
	fallback *Fallback
}

// New returns a Classifier over the given lookup and fallback.
func New(lookup Lookup, fallback *Fallback) *Classifier {
	return &Classifier{lookup: lookup, fallback: fallback}
}

// Classify resolves name, which the caller is expected to have trimmed.
func (c *Classifier) Classify(name string) Match {
	if cl, ok := c.lookup.Lookup(name); ok {
		return Match{Classification: cl, Source: model.SourceRegistry}
	}
	cl, rule := c.fallback.Classify(name)
	return Match{Classification: cl, Source: model.SourceFallback, Rule: rule}
}

// Fallback returns the classifier's fallback rule set.
func (c *Classifier) Fallback() *Fallback {
	return c.fallback
}
