// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// DefaultConfidence is assumed for a raw skill that carries no confidence.
const DefaultConfidence = 0.5

// RawSkill is a learner skill as supplied by a caller. Confidence is optional.
//
// In JSON a RawSkill is either a bare string ("React") or an object
// ({"name": "React", "confidence": 0.8}).
type RawSkill struct {
	Name       string   `json:"name" yaml:"name"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *RawSkill) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errors.New("skill must be a string or an object")
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = RawSkill{Name: name}
		return nil
	}

	// alias drops the method set so the decoder does not recurse.
	type alias RawSkill
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = RawSkill(a)
	return nil
}

// NewRawSkill builds a RawSkill with an explicit confidence.
func NewRawSkill(name string, confidence float64) RawSkill {
	c := confidence
	return RawSkill{Name: name, Confidence: &c}
}

// Skill is a normalized learner skill.
type Skill struct {
	Name       string  `json:"name"` // display form, first-seen spelling
	Key        string  `json:"-"`    // canonical form used for matching
	Confidence float64 `json:"confidence"`
}

// RequiredSkill is one entry of a role's skill profile.
type RequiredSkill struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// RoleProfile describes the skills a target role requires and how much each matters.
type RoleProfile struct {
	RoleName       string          `json:"role_name" yaml:"role_name"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	RequiredSkills []RequiredSkill `json:"required_skills" yaml:"required_skills"`
}
