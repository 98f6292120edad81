package model

import "time"

// AnalysisJob is an asynchronous analysis request travelling through the queue.
// Role, when set, takes precedence over RoleName.
type AnalysisJob struct {
	RequestID   string       // unique id for idempotency
	LearnerID   string       // optional; enables readiness ranking
	RoleName    string       // catalog role name
	Role        *RoleProfile // inline role profile
	Skills      []RawSkill
	SubmittedAt time.Time
}

// TargetRole returns the role name the job is analyzed against.
func (j *AnalysisJob) TargetRole() string {
	if j.Role != nil {
		return j.Role.RoleName
	}
	return j.RoleName
}

// BatchJob evaluates one learner against several roles. Catalog roles named
// in RoleNames come first, followed by the inline Roles.
type BatchJob struct {
	LearnerID string
	RoleNames []string
	Roles     []RoleProfile
	Skills    []RawSkill
}

// AnalysisStatus is the lifecycle state of an asynchronous analysis.
type AnalysisStatus string

// Analysis states.
const (
	StatusPending AnalysisStatus = "pending"
	StatusDone    AnalysisStatus = "done"
	StatusFailed  AnalysisStatus = "failed"
)

// AnalysisRecord is the stored outcome of an asynchronous analysis.
type AnalysisRecord struct {
	RequestID   string                `json:"request_id"`
	LearnerID   string                `json:"learner_id,omitempty"`
	RoleName    string                `json:"role_name"`
	Status      AnalysisStatus        `json:"status"`
	Bundle      *RecommendationBundle `json:"bundle,omitempty"`
	Error       string                `json:"error,omitempty"`
	SubmittedAt time.Time             `json:"submitted_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}
