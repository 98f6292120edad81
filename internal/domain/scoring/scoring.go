// Package scoring compares a learner's normalized skills against a target role
// profile and classifies every gap into a priority tier.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/normalize"
)

// Score range and tier thresholds.
const (
	maxScore       = 100
	minTargetScore = 1 // a required skill always has a positive target

	highGapThreshold   = 40
	mediumGapThreshold = 15
	weakScoreCeiling   = 50 // at or below this a learner counts as weak in a skill
)

const op = "score"

// UserScore converts a confidence in [0,1] to a score in [0,100].
func UserScore(confidence float64) int {
	return clamp(int(math.Round(confidence*maxScore)), 0, maxScore)
}

// TargetScore converts a role weight in (0,1] to a target score in [1,100].
func TargetScore(weight float64) int {
	return clamp(int(math.Round(weight*maxScore)), minTargetScore, maxScore)
}

// Gap returns the shortfall between the target and the current score, never negative.
func Gap(userScore, suggestedScore int) int {
	return max(0, suggestedScore-userScore)
}

// Classify returns the priority tier for a score pair.
//
// high: gap >= 40 and the learner is absent or weak (score <= 50).
// medium: gap in [15,40).
// low: everything else, including a gap >= 40 on a skill the learner is not weak in.
func Classify(userScore, suggestedScore int) model.Priority {
	gap := Gap(userScore, suggestedScore)
	switch {
	case gap >= highGapThreshold && userScore <= weakScoreCeiling:
		return model.PriorityHigh
	case gap >= mediumGapThreshold && gap < highGapThreshold:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// ValidateRole checks a role profile: a non-empty name, non-empty and unique
// required skill names, and weights within (0,1].
func ValidateRole(role model.RoleProfile) error {
	if normalize.Display(role.RoleName) == "" {
		return model.InvalidInput(op, "role.role_name", "must not be empty")
	}

	seen := make(map[string]int, len(role.RequiredSkills))
	for i, rs := range role.RequiredSkills {
		key := normalize.Canonical(rs.Name)
		if key == "" {
			return model.InvalidInput(op, fmt.Sprintf("role.required_skills[%d].name", i), "must not be empty")
		}
		if j, dup := seen[key]; dup {
			return model.InvalidInput(op, fmt.Sprintf("role.required_skills[%d].name", i),
				fmt.Sprintf("duplicates required_skills[%d] (%q)", j, rs.Name))
		}
		seen[key] = i

		if math.IsNaN(rs.Weight) || rs.Weight <= 0 || rs.Weight > 1 {
			return model.InvalidInput(op, fmt.Sprintf("role.required_skills[%d].weight", i),
				fmt.Sprintf("must be within (0,1], got %v", rs.Weight))
		}
	}
	return nil
}

// Score produces one GapEntry per skill in the union of the role's required
// skills and the learner's skills. Required skills come first in the role's
// declared order, followed by the learner's other skills in their given order.
func Score(skills []model.Skill, role model.RoleProfile) ([]model.GapEntry, error) {
	if err := ValidateRole(role); err != nil {
		return nil, err
	}

	learner := make(map[string]model.Skill, len(skills))
	keys := make([]string, len(skills))
	for i, s := range skills {
		key := s.Key
		if key == "" {
			key = normalize.Canonical(s.Name)
		}
		if key == "" {
			return nil, model.InvalidInput(op, fmt.Sprintf("skills[%d].name", i), "must not be empty")
		}
		if _, dup := learner[key]; dup {
			return nil, model.InvalidInput(op, fmt.Sprintf("skills[%d].name", i), "duplicate skill "+s.Name)
		}
		if math.IsNaN(s.Confidence) || s.Confidence < 0 || s.Confidence > 1 {
			return nil, model.InvalidInput(op, fmt.Sprintf("skills[%d].confidence", i),
				fmt.Sprintf("must be within [0,1], got %v", s.Confidence))
		}
		learner[key] = s
		keys[i] = key
	}

	roleName := normalize.Display(role.RoleName)
	required := make(map[string]struct{}, len(role.RequiredSkills))
	entries := make([]model.GapEntry, 0, len(role.RequiredSkills)+len(skills))

	for _, rs := range role.RequiredSkills {
		key := normalize.Canonical(rs.Name)
		required[key] = struct{}{}

		suggested := TargetScore(rs.Weight)
		user := 0
		s, has := learner[key]
		if has {
			user = UserScore(s.Confidence)
		}

		entries = append(entries, model.GapEntry{
			SkillName:      normalize.Display(rs.Name),
			UserScore:      user,
			SuggestedScore: suggested,
			Gap:            Gap(user, suggested),
			Priority:       Classify(user, suggested),
			Required:       true,
			Rationale:      requiredRationale(has, user, suggested, roleName),
		})
	}

	for i, s := range skills {
		if _, ok := required[keys[i]]; ok {
			continue
		}
		user := UserScore(s.Confidence)
		entries = append(entries, model.GapEntry{
			SkillName:      normalize.Display(s.Name),
			UserScore:      user,
			SuggestedScore: user,
			Gap:            0,
			Priority:       model.PriorityLow,
			Required:       false,
			Rationale:      "not required for " + roleName,
		})
	}

	return entries, nil
}

func requiredRationale(has bool, user, suggested int, roleName string) string {
	switch {
	case !has:
		return fmt.Sprintf("missing; target %d for %s", suggested, roleName)
	case user >= suggested:
		return fmt.Sprintf("meets target %d for %s", suggested, roleName)
	default:
		return fmt.Sprintf("current %d, target %d for %s", user, suggested, roleName)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
