// Package loadtest drives a running skill gap service with concurrent
// asynchronous analyses and checks the readiness ranking it builds.
package loadtest

import (
	"time"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/types"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Role         string        // Catalog role every learner is analyzed against
	Learners     int           // Number of learners to submit
	TopN         int           // Number of readiness entries to fetch
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Replays      int           // Completed analyses re-run synchronously; negative skips
	Wait         time.Duration // How long to wait for queued analyses to finish
	PollInterval time.Duration // Delay between result polls
	Seed         uint64        // Seed for generated confidences; 0 picks one
	Verbose      bool          // Log every failed request
}

// Submission is one generated POST /analyses body.
type Submission struct {
	RequestID string           `json:"request_id,omitempty"`
	LearnerID string           `json:"learner_id,omitempty"`
	RoleName  string           `json:"role_name"`
	Skills    []model.RawSkill `json:"skills"`

	result string // submission outcome, set by submitAll
}

// AckResponse is the response to a submission.
type AckResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Outcome is a completed analysis read back from the service.
type Outcome struct {
	LearnerID string
	Readiness int
	Bundle    *model.RecommendationBundle
	sub       *Submission
}

// Stats holds run statistics.
type Stats struct {
	Generated      int
	Submitted      int
	Accepted       int
	Duplicate      int
	Rejected       int
	Failed         int
	Completed      int
	Pending        int
	Replayed       int
	RankingEntries int
	TopReadiness   []types.ReadinessEntry
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
