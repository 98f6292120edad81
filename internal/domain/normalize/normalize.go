// Package normalize canonicalizes raw learner skills.
package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/skillgap/internal/domain/model"
)

const op = "normalize"

// Canonical folds a skill name for comparison: trimmed, inner whitespace
// collapsed to a single space, lower-cased.
func Canonical(name string) string {
	return strings.ToLower(Display(name))
}

// Display returns the trimmed, whitespace-collapsed spelling of name.
func Display(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Normalize turns raw skills into unique normalized skills.
//
// Duplicates (by canonical name) keep the first-seen display form and position
// and the higher confidence; equal confidences keep the first entry.
// A missing confidence defaults to model.DefaultConfidence.
func Normalize(raw []model.RawSkill) ([]model.Skill, error) {
	out := make([]model.Skill, 0, len(raw))
	index := make(map[string]int, len(raw))

	for i, r := range raw {
		display := Display(r.Name)
		if display == "" {
			return nil, model.InvalidInput(op, fmt.Sprintf("skills[%d].name", i), "must not be empty")
		}

		confidence := model.DefaultConfidence
		if r.Confidence != nil {
			confidence = *r.Confidence
			if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
				return nil, model.InvalidInput(op, fmt.Sprintf("skills[%d].confidence", i),
					fmt.Sprintf("must be within [0,1], got %v", confidence))
			}
		}

		key := strings.ToLower(display)
		if at, seen := index[key]; seen {
			if confidence > out[at].Confidence {
				out[at].Confidence = confidence
			}
			continue
		}
		index[key] = len(out)
		out = append(out, model.Skill{Name: display, Key: key, Confidence: confidence})
	}

	return out, nil
}
