// Package repository holds analysis records and per-role readiness rankings in memory.
package repository

import (
	"context"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/types"
)

// ReadinessStore ranks learners per role by their latest readiness.
type ReadinessStore interface {
	// Upsert sets the learner's readiness for role, replacing any previous value.
	Upsert(ctx context.Context, role, learnerID string, readiness int) error

	// Rank returns the learner's dense rank for role.
	// Returns ErrNotFound if the learner has no readiness for role.
	Rank(ctx context.Context, role, learnerID string) (types.ReadinessEntry, error)

	// TopN returns up to n learners ordered by readiness desc, learner ID asc.
	TopN(ctx context.Context, role string, n int) ([]types.ReadinessEntry, error)

	// Count returns the number of learners ranked for role.
	Count(ctx context.Context, role string) int

	// Roles lists the roles with at least one learner.
	Roles(ctx context.Context) []string
}

// ResultStore keeps analysis records by request ID.
type ResultStore interface {
	// Put stores rec, replacing a record with the same request ID.
	Put(ctx context.Context, rec model.AnalysisRecord) error

	// Get returns ErrNotFound for unknown or evicted IDs.
	Get(ctx context.Context, requestID string) (model.AnalysisRecord, error)

	// Delete forgets a record; unknown IDs are ignored.
	Delete(ctx context.Context, requestID string)

	Count(ctx context.Context) int
}
