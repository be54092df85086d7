package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/model"
	"github.com/sells-group/vendor-spend/internal/registry"
)

func TestReadNames(t *testing.T) {
	names, err := readNames(strings.NewReader("Acme Hotel\n\n  Blue Law Partners  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Hotel", "Blue Law Partners"}, names)
}

func TestFormatClassified(t *testing.T) {
	useTestConfig(t)
	env, err := initClassifier()
	require.NoError(t, err)

	results := []classifiedName{
		{Name: "Salesforce Uk Ltd-Uk", Match: env.Classifier.Classify("Salesforce Uk Ltd-Uk")},
		{Name: "Grand Hotel", Match: env.Classifier.Classify("Grand Hotel")},
	}

	var buf bytes.Buffer
	require.NoError(t, formatClassified(&buf, results))
	out := buf.String()
	assert.Contains(t, out, "VENDOR")
	assert.Contains(t, out, "registry")
	assert.Contains(t, out, "fallback:hotel")
	assert.Contains(t, out, "Hotel accommodation for business travel")
}

func TestClassifiedName_JSON(t *testing.T) {
	c := classifiedName{
		Name: "Grand Hotel",
		Match: classify.Match{
			Classification: model.Classification{Department: model.DepartmentGA, Description: "Hotel", Recommendation: model.RecommendationOptimize},
			Source:         model.SourceFallback,
			Rule:           "hotel",
		},
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Grand Hotel", got["name"])
	assert.Equal(t, "fallback", got["source"])
	assert.Equal(t, "hotel", got["rule"])
}

func TestFormatRules(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatRules(&buf, classify.DefaultFallback().Rules()))
	out := buf.String()
	assert.Regexp(t, `1\s+legal`, out)
	assert.Contains(t, out, "notary")
	assert.Contains(t, out, "(catch-all)")
}

func TestFormatRegistryList(t *testing.T) {
	entries := []registry.Entry{
		{Name: "Lusha", Department: model.DepartmentSales, Description: "Contact data", Recommendation: model.RecommendationConsolidate},
	}
	var buf bytes.Buffer
	require.NoError(t, formatRegistryList(&buf, entries))
	out := buf.String()
	assert.Contains(t, out, "Lusha")
	assert.Contains(t, out, "Consolidate")
	assert.Contains(t, out, "1 entries")
}

func TestQuoteAll(t *testing.T) {
	assert.Equal(t, []string{`"a"`, `"b c"`}, quoteAll([]string{"a", "b c"}))
}
