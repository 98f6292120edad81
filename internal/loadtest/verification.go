package loadtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/okian/skillgap/internal/domain/types"
	"github.com/okian/skillgap/pkg/logger"
)

// ErrVerification is wrapped by every consistency failure.
var ErrVerification = errors.New("verification failed")

// verifyRanking checks the readiness ranking against the readiness values read
// back per learner. Learners ranked by earlier runs are ignored.
func verifyRanking(ctx context.Context, outcomes []Outcome, top []types.ReadinessEntry) error {
	log := logger.Get()
	if len(outcomes) == 0 {
		return fmt.Errorf("%w: no completed analyses", ErrVerification)
	}

	var errs []error
	byLearner := make(map[string]int, len(outcomes))
	best := 0
	for _, o := range outcomes {
		if o.Readiness < 0 || o.Readiness > percentageMultiplier {
			errs = append(errs, fmt.Errorf("%w: learner %s readiness %d out of range", ErrVerification, o.LearnerID, o.Readiness))
		}
		byLearner[o.LearnerID] = o.Readiness
		best = max(best, o.Readiness)
	}

	if len(top) == 0 {
		errs = append(errs, fmt.Errorf("%w: empty readiness ranking", ErrVerification))
		return errors.Join(errs...)
	}

	// ranks are dense: ties share a rank and the next value gets rank+1
	rank := 0
	for i, e := range top {
		if i > 0 && e.Readiness > top[i-1].Readiness {
			errs = append(errs, fmt.Errorf("%w: entry %d ranks above a lower readiness", ErrVerification, i))
		}
		if i == 0 || e.Readiness != top[i-1].Readiness {
			rank++
		}
		if e.Rank != rank {
			errs = append(errs, fmt.Errorf("%w: entry %d has rank %d, want %d", ErrVerification, i, e.Rank, rank))
		}
		if want, ok := byLearner[e.LearnerID]; ok && want != e.Readiness {
			errs = append(errs, fmt.Errorf("%w: learner %s ranked with %d, analysis reported %d",
				ErrVerification, e.LearnerID, e.Readiness, want))
		}
	}
	if top[0].Readiness < best {
		errs = append(errs, fmt.Errorf("%w: top readiness %d below best analysis %d", ErrVerification, top[0].Readiness, best))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info(ctx, "readiness ranking verified", logger.Int("entries", len(top)), logger.Int("best", best))
	return nil
}

// verifyReplays re-runs up to n completed analyses synchronously and checks
// each bundle equals the one the worker stored.
func verifyReplays(ctx context.Context, client *Client, outcomes []Outcome, n int, stats *Stats) error {
	var errs []error
	for _, o := range outcomes[:max(0, min(n, len(outcomes)))] {
		bundle, err := client.Analyze(ctx, o.sub)
		if err != nil {
			return fmt.Errorf("replay %s: %w", o.sub.RequestID, err)
		}
		stats.Replayed++
		if !reflect.DeepEqual(&bundle, o.Bundle) {
			errs = append(errs, fmt.Errorf("%w: replay of %s differs from the stored analysis", ErrVerification, o.sub.RequestID))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Get().Info(ctx, "replayed analyses match", logger.Int("replayed", stats.Replayed))
	return nil
}

// readinessStats summarizes the readiness distribution of outcomes.
func readinessStats(outcomes []Outcome) (minR, maxR int, avg float64) {
	if len(outcomes) == 0 {
		return 0, 0, 0
	}
	values := make([]int, len(outcomes))
	sum := 0
	for i, o := range outcomes {
		values[i] = o.Readiness
		sum += o.Readiness
	}
	return slices.Min(values), slices.Max(values), float64(sum) / float64(len(values))
}
