package model

import "sort"

// Stats accumulates spend and recommendation totals over one enrichment pass.
type Stats struct {
	TotalSpend           float64                    `json:"total_spend"`
	DepartmentSpend      map[Department]float64     `json:"department_spend"`
	RecommendationCounts map[Recommendation]int     `json:"recommendation_counts"`
	RecommendationSpend  map[Recommendation]float64 `json:"recommendation_spend"`
	Classified           int                        `json:"classified"`
	FallbackCount        int                        `json:"fallback_count"`
	Skipped              int                        `json:"skipped"`
}

// NewStats returns an empty accumulator with every recommendation seeded at zero.
func NewStats() Stats {
	s := Stats{
		DepartmentSpend:      make(map[Department]float64),
		RecommendationCounts: make(map[Recommendation]int, len(recommendations)),
		RecommendationSpend:  make(map[Recommendation]float64, len(recommendations)),
	}
	for _, r := range recommendations {
		s.RecommendationCounts[r] = 0
		s.RecommendationSpend[r] = 0
	}
	return s
}

// Add folds one classified record into the totals.
func (s *Stats) Add(c Classification, src Source, cost float64) {
	s.Classified++
	if src == SourceFallback {
		s.FallbackCount++
	}
	s.TotalSpend += cost
	s.DepartmentSpend[c.Department] += cost
	s.RecommendationCounts[c.Recommendation]++
	s.RecommendationSpend[c.Recommendation] += cost
}

// Skip counts a record that was excluded from classification.
func (s *Stats) Skip() {
	s.Skipped++
}

// DepartmentTotal pairs a department with its accumulated spend.
type DepartmentTotal struct {
	Department Department `json:"department"`
	Spend      float64    `json:"spend"`
}

// DepartmentsBySpend returns departments seen in the pass ordered by
// descending spend, ties broken by name.
func (s Stats) DepartmentsBySpend() []DepartmentTotal {
	out := make([]DepartmentTotal, 0, len(s.DepartmentSpend))
	for d, spend := range s.DepartmentSpend {
		out = append(out, DepartmentTotal{Department: d, Spend: spend})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Department < out[j].Department
	})
	return out
}

// DepartmentShare returns the department's share of total spend as a
// percentage, or 0 when nothing was spent.
func (s Stats) DepartmentShare(d Department) float64 {
	if s.TotalSpend <= 0 {
		return 0
	}
	return s.DepartmentSpend[d] / s.TotalSpend * 100
}
