package model

// Priority is the coarse urgency tier of a skill gap.
type Priority string

// Priority tiers.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Severity orders priorities for sorting; unknown values rank below low.
func (p Priority) Severity() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known tiers.
func (p Priority) Valid() bool { return p.Severity() > 0 }

// GapEntry is one row of the comparison series.
type GapEntry struct {
	SkillName      string   `json:"skill_name"`
	UserScore      int      `json:"user_score"`
	SuggestedScore int      `json:"suggested_score"`
	Gap            int      `json:"gap"`
	Priority       Priority `json:"priority"`
	Required       bool     `json:"required"`
	Rationale      string   `json:"rationale"`
}

// Recommendation is one prioritized action item.
type Recommendation struct {
	SkillName string `json:"skill_name"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Impact    string `json:"impact"`
}

// RecommendationBundle is the analyzer output handed to the presentation layer.
type RecommendationBundle struct {
	RoleName              string           `json:"role_name"`
	ComparisonSeries      []GapEntry       `json:"comparison_series"`
	RankedRecommendations []Recommendation `json:"ranked_recommendations"`
	Summary               string           `json:"summary"`
	Readiness             int              `json:"readiness"`
}
