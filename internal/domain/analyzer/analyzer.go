// Package analyzer chains the normalize, scoring and recommend stages.
package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/normalize"
	"github.com/okian/skillgap/internal/domain/recommend"
	"github.com/okian/skillgap/internal/domain/scoring"
)

const defaultBatchConcurrency = 4

// BatchResult is the outcome of one role in a batch. Exactly one of Bundle
// and Err is set.
type BatchResult struct {
	RoleName string
	Bundle   *model.RecommendationBundle
	Err      error
}

// Analyze runs the full pipeline for one learner against one role.
func Analyze(raw []model.RawSkill, role model.RoleProfile) (model.RecommendationBundle, error) {
	skills, err := normalize.Normalize(raw)
	if err != nil {
		return model.RecommendationBundle{}, err
	}
	return AnalyzeSkills(skills, role)
}

// AnalyzeSkills scores already normalized skills and composes the bundle.
func AnalyzeSkills(skills []model.Skill, role model.RoleProfile) (model.RecommendationBundle, error) {
	gaps, err := scoring.Score(skills, role)
	if err != nil {
		return model.RecommendationBundle{}, err
	}
	return recommend.Compose(gaps, role)
}

// AnalyzeBatch evaluates one learner against several roles in parallel.
//
// The skills are normalized once; invalid skills fail the whole batch. A role
// rejected with model.ErrInvalidInput only fails its own element. An internal
// invariant violation or a cancelled ctx fails the whole batch. Results keep
// the order of roles.
func AnalyzeBatch(ctx context.Context, raw []model.RawSkill, roles []model.RoleProfile, opts ...BatchOption) ([]BatchResult, error) {
	cfg := batchConfig{concurrency: defaultBatchConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}

	skills, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(roles))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.concurrency > 0 {
		g.SetLimit(cfg.concurrency)
	}

	for i, role := range roles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].RoleName = normalize.Display(role.RoleName)

			bundle, err := AnalyzeSkills(skills, role)
			switch {
			case err == nil:
				results[i].Bundle = &bundle
			case model.IsInvalidInput(err):
				results[i].Err = err
			default:
				return fmt.Errorf("role %d (%s): %w", i, results[i].RoleName, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
