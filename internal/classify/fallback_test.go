package classify

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-spend/internal/model"
)

func TestFallback_DefaultRules(t *testing.T) {
	f := DefaultFallback()

	tests := []struct {
		name     string
		vendor   string
		wantRule string
		wantDept model.Department
		wantRec  model.Recommendation
	}{
		{"legal keyword", "Unknown Law Office", "legal", model.DepartmentLegal, model.RecommendationOptimize},
		{"notary", "Javni Biljeznik Notary", "legal", model.DepartmentLegal, model.RecommendationOptimize},
		{"finance", "Smith Chartered Accountants", "finance", model.DepartmentFinance, model.RecommendationOptimize},
		{"insurance", "Croatia Osiguranje", "insurance", model.DepartmentGA, model.RecommendationOptimize},
		{"hotel", "Grand Hotel Zagreb", "hotel", model.DepartmentGA, model.RecommendationOptimize},
		{"food", "Corner Bakery", "food", model.DepartmentFacilities, model.RecommendationTerminate},
		{"technology", "Information Partners", "technology", model.DepartmentEngineering, model.RecommendationOptimize},
		{"office", "City Workspace", "office", model.DepartmentFacilities, model.RecommendationOptimize},
		{"telecom", "Acme Mobile", "telecom", model.DepartmentGA, model.RecommendationOptimize},
		{"consulting", "Blue Consulting", "consulting", model.DepartmentProfessionalServices, model.RecommendationOptimize},
		{"hr with trailing space", "Growth HR Ltd", "hr", model.DepartmentGA, model.RecommendationOptimize},
		{"staffing", "Global Staffing", "hr", model.DepartmentGA, model.RecommendationOptimize},
		{"no keyword", "Mystery Corp", "default", model.DepartmentGA, model.RecommendationOptimize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := f.Classify(tt.vendor)
			assert.Equal(t, tt.wantRule, rule)
			assert.Equal(t, tt.wantDept, got.Department)
			assert.Equal(t, tt.wantRec, got.Recommendation)
		})
	}
}

func TestFallback_RuleOrderWins(t *testing.T) {
	f := DefaultFallback()

	tests := []struct {
		vendor   string
		wantRule string
	}{
		{"Legal Technology Partners", "legal"}, // legal precedes technology
		{"Tax Software Ltd", "finance"},        // finance precedes technology
		{"Hotel Kitchen", "hotel"},             // hotel precedes food
		{"Coffee Systems", "food"},             // food precedes technology
		{"Telekom Office", "office"},           // office precedes telecom
		{"Digital Consulting", "technology"},   // technology precedes consulting
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				_, rule := f.Classify(tt.vendor)
				assert.Equal(t, tt.wantRule, rule)
			}
		})
	}
}

func TestFallback_SubstringMatchingIsPermissive(t *testing.T) {
	f := DefaultFallback()

	// "inn" inside "Innovate" fires the hotel rule.
	_, rule := f.Classify("Innovate Ltd")
	assert.Equal(t, "hotel", rule)

	// "law" inside "Lawn" fires the legal rule.
	_, rule = f.Classify("Green Lawn Services")
	assert.Equal(t, "legal", rule)

	// "tax" inside "Taxi" fires the finance rule.
	_, rule = f.Classify("City Taxi")
	assert.Equal(t, "finance", rule)
}

func TestFallback_MatchingIsCaseInsensitive(t *testing.T) {
	f := DefaultFallback()
	for _, name := range []string{"ACME LAW", "acme law", "Acme LaW"} {
		got, _ := f.Classify(name)
		assert.Equal(t, model.DepartmentLegal, got.Department, name)
	}
}

func TestFallback_CatchAllInterpolatesName(t *testing.T) {
	f := DefaultFallback()

	a, rule := f.Classify("Mystery Corp")
	require.Equal(t, "default", rule)
	assert.Equal(t, "Business and operational services provider (Mystery Corp)", a.Description)

	b, _ := f.Classify("Enigma Corp")
	assert.NotEqual(t, a.Description, b.Description)

	// The original casing is preserved in the description.
	c, _ := f.Classify("MYSTERY CORP")
	assert.Contains(t, c.Description, "MYSTERY CORP")
}

func TestFallback_Totality(t *testing.T) {
	f := DefaultFallback()
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyz ABCDEFGHIJ.-&()0123456789šđčćž")

	names := []string{"", " ", "\t", "ñ", "日本語の会社", "()", "HR", "hr "}
	for i := 0; i < 500; i++ {
		n := rng.IntN(30)
		r := make([]rune, n)
		for j := range r {
			r[j] = alphabet[rng.IntN(len(alphabet))]
		}
		names = append(names, string(r))
	}

	for _, name := range names {
		got, rule := f.Classify(name)
		assert.NotEmpty(t, rule)
		assert.True(t, got.Department.Valid(), "department for %q", name)
		assert.True(t, got.Recommendation.Valid(), "recommendation for %q", name)
		assert.NotEmpty(t, got.Description)
	}
}

func TestFallback_DistinctUnmatchedNamesGetDistinctDescriptions(t *testing.T) {
	f := DefaultFallback()
	seen := make(map[string]string)
	for _, name := range []string{"Mystery Corp", "Enigma Corp", "Puzzle Co", "Riddle Group", "Mystery Corp."} {
		got, rule := f.Classify(name)
		require.Equal(t, "default", rule, name)
		prev, dup := seen[got.Description]
		assert.False(t, dup, "%q and %q share a description", prev, name)
		seen[got.Description] = name
	}
}

func TestFallback_Rules(t *testing.T) {
	f := DefaultFallback()
	rules := f.Rules()
	require.Len(t, rules, 11)
	assert.Equal(t, "legal", rules[0].Name)
	assert.Equal(t, "hr", rules[9].Name)
	assert.Equal(t, "default", rules[10].Name)

	// Mutating the returned slice does not change classification.
	rules[0].Keywords[0] = "zzz"
	got, _ := f.Classify("Acme Law")
	assert.Equal(t, model.DepartmentLegal, got.Department)
}

func TestNewFallback_Validation(t *testing.T) {
	good := Rule{Name: "x", Keywords: []string{"x"}, Department: model.DepartmentSales, Description: "d", Recommendation: model.RecommendationOptimize}

	tests := []struct {
		name     string
		rules    []Rule
		catchAll Rule
		wantErr  string
	}{
		{
			name:     "bad department",
			rules:    []Rule{{Name: "x", Keywords: []string{"x"}, Department: "IT", Description: "d", Recommendation: model.RecommendationOptimize}},
			catchAll: DefaultCatchAll(),
			wantErr:  "invalid department",
		},
		{
			name:     "no keywords",
			rules:    []Rule{{Name: "x", Department: model.DepartmentSales, Description: "d", Recommendation: model.RecommendationOptimize}},
			catchAll: DefaultCatchAll(),
			wantErr:  "has no keywords",
		},
		{
			name:     "uppercase keyword",
			rules:    []Rule{{Name: "x", Keywords: []string{"Law"}, Department: model.DepartmentLegal, Description: "d", Recommendation: model.RecommendationOptimize}},
			catchAll: DefaultCatchAll(),
			wantErr:  "must be lowercase",
		},
		{
			name:     "duplicate rule name",
			rules:    []Rule{good, good},
			catchAll: DefaultCatchAll(),
			wantErr:  "duplicate rule name",
		},
		{
			name:     "catch-all without placeholder",
			rules:    []Rule{good},
			catchAll: Rule{Name: "default", Department: model.DepartmentGA, Description: "Business services provider", Recommendation: model.RecommendationOptimize},
			wantErr:  "must contain {name}",
		},
		{
			name:     "catch-all with keywords",
			rules:    []Rule{good},
			catchAll: Rule{Name: "default", Keywords: []string{"a"}, Department: model.DepartmentGA, Description: "x {name}", Recommendation: model.RecommendationOptimize},
			wantErr:  "must not have keywords",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFallback(tt.rules, tt.catchAll)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewFallback_CopiesRules(t *testing.T) {
	rules := []Rule{{Name: "x", Keywords: []string{"acme"}, Department: model.DepartmentSales, Description: "d", Recommendation: model.RecommendationOptimize}}
	f, err := NewFallback(rules, DefaultCatchAll())
	require.NoError(t, err)

	rules[0].Keywords[0] = "zzz"
	got, rule := f.Classify("Acme")
	assert.Equal(t, "x", rule)
	assert.Equal(t, model.DepartmentSales, got.Department)
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := `
rules:
  - name: cloud
    keywords: ["cloud", "aws"]
    department: Engineering
    description: "Cloud services for {name}"
    recommendation: Consolidate
catch_all:
  name: other
  department: Support
  description: "Unclassified vendor {name}"
  recommendation: Optimize
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	f, err := LoadRules(path)
	require.NoError(t, err)

	got, rule := f.Classify("Acme Cloud")
	assert.Equal(t, "cloud", rule)
	assert.Equal(t, "Cloud services for Acme Cloud", got.Description)
	assert.Equal(t, model.RecommendationConsolidate, got.Recommendation)

	// Built-in rules are replaced entirely.
	got, rule = f.Classify("Acme Law")
	assert.Equal(t, "other", rule)
	assert.Equal(t, model.DepartmentSupport, got.Department)
	assert.Equal(t, "Unclassified vendor Acme Law", got.Description)
}

func TestLoadRules_DefaultCatchAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := `
rules:
  - name: cloud
    keywords: ["cloud"]
    department: Engineering
    description: "Cloud services"
    recommendation: Optimize
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	f, err := LoadRules(path)
	require.NoError(t, err)
	got, rule := f.Classify("Mystery Corp")
	assert.Equal(t, "default", rule)
	assert.Contains(t, got.Description, "Mystery Corp")
}

func TestLoadRules_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rules file")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o644))
	_, err = LoadRules(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defines no rules")

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("rulez: []\n"), 0o644))
	_, err = LoadRules(unknown)
	require.Error(t, err)
}

func TestLoadFallback_EmptyPath(t *testing.T) {
	f, err := LoadFallback("")
	require.NoError(t, err)
	assert.Len(t, f.Rules(), 11)
}
