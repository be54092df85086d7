// Package classify assigns classifications to vendor names: curated registry
// entries first, ordered keyword rules second, and a catch-all last.
package classify

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/model"
)

// NamePlaceholder in a rule description is replaced with the vendor name as
// it appeared in the input (trimmed, original case).
const NamePlaceholder = "{name}"

// Rule maps a set of keywords to a classification. A rule fires when any
// keyword is a substring of the lowercased vendor name; there is no word
// boundary check, so "info" matches "information".
type Rule struct {
	Name           string               `yaml:"name" json:"name"`
	Keywords       []string             `yaml:"keywords" json:"keywords"`
	Department     model.Department     `yaml:"department" json:"department"`
	Description    string               `yaml:"description" json:"description"`
	Recommendation model.Recommendation `yaml:"recommendation" json:"recommendation"`
}

// Matches reports whether any keyword occurs in lowerName.
func (r Rule) Matches(lowerName string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowerName, kw) {
			return true
		}
	}
	return false
}

// Apply builds the classification for name, interpolating the name into the
// description when it carries NamePlaceholder.
func (r Rule) Apply(name string) model.Classification {
	return model.Classification{
		Department:     r.Department,
		Description:    strings.ReplaceAll(r.Description, NamePlaceholder, name),
		Recommendation: r.Recommendation,
	}
}

func (r Rule) validate() error {
	if r.Name == "" {
		return eris.New("rule has no name")
	}
	c := model.Classification{Department: r.Department, Description: r.Description, Recommendation: r.Recommendation}
	if err := c.Validate(); err != nil {
		return eris.Wrapf(err, "rule %q", r.Name)
	}
	for _, kw := range r.Keywords {
		if kw == "" {
			return eris.Errorf("rule %q has an empty keyword", r.Name)
		}
		if kw != strings.ToLower(kw) {
			return eris.Errorf("rule %q keyword %q must be lowercase", r.Name, kw)
		}
	}
	return nil
}

// DefaultRules returns the built-in keyword rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:           "legal",
			Keywords:       []string{"law", "solicitor", "attorney", "legal", "notary"},
			Department:     model.DepartmentLegal,
			Description:    "Legal and professional advisory services",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "finance",
			Keywords:       []string{"accountant", "tax", "audit", "chartered"},
			Department:     model.DepartmentFinance,
			Description:    "Accounting and financial advisory services",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "insurance",
			Keywords:       []string{"insurance", "osiguranje"},
			Department:     model.DepartmentGA,
			Description:    "Insurance services provider",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "hotel",
			Keywords:       []string{"hotel", "resort", "inn"},
			Department:     model.DepartmentGA,
			Description:    "Hotel accommodation for business travel",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "food",
			Keywords:       []string{"restaurant", "cafe", "kitchen", "catering", "food", "baker", "coffee"},
			Department:     model.DepartmentFacilities,
			Description:    "Food and catering services for office operations",
			Recommendation: model.RecommendationTerminate,
		},
		{
			Name:           "technology",
			Keywords:       []string{"software", "technology", "tech", "system", "digital", "info"},
			Department:     model.DepartmentEngineering,
			Description:    "Technology and software services provider",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "office",
			Keywords:       []string{"office", "space", "property", "workspace"},
			Department:     model.DepartmentFacilities,
			Description:    "Office space and property management services",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "telecom",
			Keywords:       []string{"telecom", "telekom", "mobile"},
			Department:     model.DepartmentGA,
			Description:    "Telecommunications services provider",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "consulting",
			Keywords:       []string{"consult", "advisory", "savjetov"},
			Department:     model.DepartmentProfessionalServices,
			Description:    "Consulting and advisory services",
			Recommendation: model.RecommendationOptimize,
		},
		{
			Name:           "hr",
			Keywords:       []string{"recruit", "staffing", "hr ", "human resource"},
			Department:     model.DepartmentGA,
			Description:    "HR and recruitment services",
			Recommendation: model.RecommendationOptimize,
		},
	}
}

// DefaultCatchAll returns the terminal rule applied when no keyword rule fires.
func DefaultCatchAll() Rule {
	return Rule{
		Name:           "default",
		Department:     model.DepartmentGA,
		Description:    "Business and operational services provider (" + NamePlaceholder + ")",
		Recommendation: model.RecommendationOptimize,
	}
}
