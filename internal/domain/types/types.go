// Package types contains read models shared by the adapters and the service.
package types

// ReadinessEntry is one row of a role's readiness ranking.
type ReadinessEntry struct {
	Rank      int    `json:"rank"`
	LearnerID string `json:"learner_id"`
	Readiness int    `json:"readiness"`
}

// RoleSummary describes a catalog role without its weights.
type RoleSummary struct {
	RoleName    string   `json:"role_name"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills"`
}
