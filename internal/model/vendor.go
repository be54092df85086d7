package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Department is a cost-center category used for spend attribution.
type Department string

const (
	DepartmentEngineering          Department = "Engineering"
	DepartmentFacilities           Department = "Facilities"
	DepartmentGA                   Department = "G&A"
	DepartmentLegal                Department = "Legal"
	DepartmentMA                   Department = "M&A"
	DepartmentMarketing            Department = "Marketing"
	DepartmentSaaS                 Department = "SaaS"
	DepartmentProduct              Department = "Product"
	DepartmentProfessionalServices Department = "Professional Services"
	DepartmentSales                Department = "Sales"
	DepartmentSupport              Department = "Support"
	DepartmentFinance              Department = "Finance"
)

var departments = []Department{
	DepartmentEngineering,
	DepartmentFacilities,
	DepartmentGA,
	DepartmentLegal,
	DepartmentMA,
	DepartmentMarketing,
	DepartmentSaaS,
	DepartmentProduct,
	DepartmentProfessionalServices,
	DepartmentSales,
	DepartmentSupport,
	DepartmentFinance,
}

// Departments returns the closed set of departments in canonical order.
func Departments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, known := range departments {
		if d == known {
			return true
		}
	}
	return false
}

// Recommendation is the strategic disposition assigned to a vendor.
type Recommendation string

const (
	RecommendationTerminate   Recommendation = "Terminate"
	RecommendationConsolidate Recommendation = "Consolidate"
	RecommendationOptimize    Recommendation = "Optimize"
)

var recommendations = []Recommendation{
	RecommendationTerminate,
	RecommendationConsolidate,
	RecommendationOptimize,
}

// Recommendations returns the closed set of recommendations in canonical order.
func Recommendations() []Recommendation {
	out := make([]Recommendation, len(recommendations))
	copy(out, recommendations)
	return out
}

// Valid reports whether r is one of the known recommendations.
func (r Recommendation) Valid() bool {
	for _, known := range recommendations {
		if r == known {
			return true
		}
	}
	return false
}

// Classification is the (department, description, recommendation) triple
// assigned to a vendor.
type Classification struct {
	Department     Department     `json:"department" yaml:"department"`
	Description    string         `json:"description" yaml:"description"`
	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
}

// Validate checks that the department and recommendation belong to their
// closed sets and that a description is present.
func (c Classification) Validate() error {
	if !c.Department.Valid() {
		return eris.Errorf("model: invalid department %q", c.Department)
	}
	if !c.Recommendation.Valid() {
		return eris.Errorf("model: invalid recommendation %q", c.Recommendation)
	}
	if strings.TrimSpace(c.Description) == "" {
		return eris.New("model: empty description")
	}
	return nil
}

// Source records where a classification came from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceFallback Source = "fallback"
)

// VendorRecord is one row of procurement input.
type VendorRecord struct {
	Row  int      `json:"row"` // 0-based sheet row index
	Name string   `json:"name"`
	Cost *float64 `json:"cost,omitempty"` // nil when the cell is blank or unreadable
}

// CostOrZero returns the record's cost, treating a missing value as zero.
func (v VendorRecord) CostOrZero() float64 {
	if v.Cost == nil {
		return 0
	}
	return *v.Cost
}
