// Package recommend turns scored gaps into a ranked recommendation bundle.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/normalize"
)

const (
	op = "compose"

	maxScore         = 100
	maxSummarySkills = 3
	fullReadiness    = 100
)

// Compose builds the bundle for role from gaps produced by the scorer.
//
// The comparison series is an unfiltered copy of gaps. Recommendations cover
// every non-low entry, ordered by severity desc, gap desc, role weight desc,
// then canonical skill name asc. Malformed entries are reported as
// model.ErrInternalInvariant since the scorer never produces them.
func Compose(gaps []model.GapEntry, role model.RoleProfile) (model.RecommendationBundle, error) {
	if err := check(gaps); err != nil {
		return model.RecommendationBundle{}, err
	}

	roleName := normalize.Display(role.RoleName)
	weights := make(map[string]float64, len(role.RequiredSkills))
	for _, rs := range role.RequiredSkills {
		weights[normalize.Canonical(rs.Name)] = rs.Weight
	}

	series := make([]model.GapEntry, len(gaps))
	copy(series, gaps)

	ranked := make([]model.GapEntry, 0, len(gaps))
	for _, g := range gaps {
		if g.Priority != model.PriorityLow {
			ranked = append(ranked, g)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if sa, sb := a.Priority.Severity(), b.Priority.Severity(); sa != sb {
			return sa > sb
		}
		if a.Gap != b.Gap {
			return a.Gap > b.Gap
		}
		ka, kb := normalize.Canonical(a.SkillName), normalize.Canonical(b.SkillName)
		if wa, wb := weights[ka], weights[kb]; wa != wb {
			return wa > wb
		}
		return ka < kb
	})

	recs := make([]model.Recommendation, len(ranked))
	for i, g := range ranked {
		recs[i] = model.Recommendation{
			SkillName: g.SkillName,
			Title:     "Improve " + g.SkillName,
			Detail:    fmt.Sprintf("Current %d, target %d for %s", g.UserScore, g.SuggestedScore, roleName),
			Impact:    string(g.Priority),
		}
	}

	return model.RecommendationBundle{
		RoleName:              roleName,
		ComparisonSeries:      series,
		RankedRecommendations: recs,
		Summary:               summary(roleName, ranked),
		Readiness:             Readiness(series),
	}, nil
}

// Readiness is the share of required target points the learner already
// covers, in [0,100]: sum(min(user, suggested)) / sum(suggested). Targets scale
// with role weights, so heavier skills count for more. With no required
// entries the learner is fully ready.
func Readiness(gaps []model.GapEntry) int {
	var covered, total int
	for _, g := range gaps {
		if !g.Required {
			continue
		}
		covered += min(g.UserScore, g.SuggestedScore)
		total += g.SuggestedScore
	}
	if total == 0 {
		return fullReadiness
	}
	return int(math.Round(maxScore * float64(covered) / float64(total)))
}

func summary(roleName string, ranked []model.GapEntry) string {
	var names []string
	for _, g := range ranked {
		if g.Priority != model.PriorityHigh {
			break
		}
		names = append(names, g.SkillName)
		if len(names) == maxSummarySkills {
			break
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Your skills are well aligned with the %s role.", roleName)
	}
	return fmt.Sprintf("To grow into the %s role, focus on %s.", roleName, joinNames(names))
}

func joinNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func check(gaps []model.GapEntry) error {
	for i, g := range gaps {
		switch {
		case g.UserScore < 0 || g.UserScore > maxScore:
			return model.InvariantViolation(op, fmt.Sprintf("gaps[%d].user_score", i),
				fmt.Sprintf("out of range [0,100]: %d", g.UserScore))
		case g.SuggestedScore < 0 || g.SuggestedScore > maxScore:
			return model.InvariantViolation(op, fmt.Sprintf("gaps[%d].suggested_score", i),
				fmt.Sprintf("out of range [0,100]: %d", g.SuggestedScore))
		case g.Gap != max(0, g.SuggestedScore-g.UserScore):
			return model.InvariantViolation(op, fmt.Sprintf("gaps[%d].gap", i),
				fmt.Sprintf("%d does not match scores %d/%d", g.Gap, g.UserScore, g.SuggestedScore))
		case !g.Priority.Valid():
			return model.InvariantViolation(op, fmt.Sprintf("gaps[%d].priority", i),
				fmt.Sprintf("unknown priority %q", g.Priority))
		case strings.TrimSpace(g.SkillName) == "":
			return model.InvariantViolation(op, fmt.Sprintf("gaps[%d].skill_name", i), "empty")
		}
	}
	return nil
}
