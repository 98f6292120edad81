package loadtest

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/pkg/logger"
)

// generateSubmissions creates one submission per learner for role. Each
// learner gets a random confidence per required skill and sometimes skips one.
func generateSubmissions(ctx context.Context, cfg *Config, role model.RoleProfile, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating learners", logger.Int("learners", cfg.Learners), logger.String("role", role.RoleName))

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	subs := make([]Submission, cfg.Learners)
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		subs[i] = Submission{
			RequestID: uuid.NewString(),
			LearnerID: uuid.NewString(),
			RoleName:  role.RoleName,
			Skills:    learnerSkills(rng, role),
		}
	}

	stats.Generated = len(subs)
	logger.Get().Info(ctx, "generated learners", logger.Int("count", len(subs)))
	return subs, nil
}

func learnerSkills(rng *rand.Rand, role model.RoleProfile) []model.RawSkill {
	skills := make([]model.RawSkill, 0, len(role.RequiredSkills)+1)
	for _, rs := range role.RequiredSkills {
		if rng.Float64() < skipSkillOdds {
			continue
		}
		skills = append(skills, model.NewRawSkill(rs.Name, confidence(rng)))
	}
	if rng.IntN(2) == 0 {
		skills = append(skills, model.NewRawSkill(extraSkill, confidence(rng)))
	}
	if len(skills) == 0 {
		// every learner reports at least one skill
		skills = append(skills, model.NewRawSkill(extraSkill, confidence(rng)))
	}
	return skills
}

// confidence returns a value in [0,1] with two decimals.
func confidence(rng *rand.Rand) float64 {
	return math.Round(rng.Float64()*percentageMultiplier) / percentageMultiplier
}
