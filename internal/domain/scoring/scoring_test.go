package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func role(name string, skills ...model.RequiredSkill) model.RoleProfile {
	return model.RoleProfile{RoleName: name, RequiredSkills: skills}
}

func req(name string, w float64) model.RequiredSkill {
	return model.RequiredSkill{Name: name, Weight: w}
}

func skill(name string, c float64) model.Skill {
	return model.Skill{Name: name, Confidence: c}
}

func TestClassify(t *testing.T) {
	Convey("Given score pairs around the tier thresholds", t, func() {
		Convey("Then a gap of exactly 40 from zero is high", func() {
			So(scoring.Classify(0, 40), ShouldEqual, model.PriorityHigh)
		})
		Convey("Then a gap of 39 is medium", func() {
			So(scoring.Classify(0, 39), ShouldEqual, model.PriorityMedium)
		})
		Convey("Then a gap of exactly 15 is medium", func() {
			So(scoring.Classify(60, 75), ShouldEqual, model.PriorityMedium)
		})
		Convey("Then a gap of 14 is low", func() {
			So(scoring.Classify(61, 75), ShouldEqual, model.PriorityLow)
		})
		Convey("Then a weak learner at 50 with a 40 gap is high", func() {
			So(scoring.Classify(50, 90), ShouldEqual, model.PriorityHigh)
		})
		Convey("Then a non-weak learner with a large gap is low", func() {
			So(scoring.Classify(51, 100), ShouldEqual, model.PriorityLow)
			So(scoring.Classify(51, 91), ShouldEqual, model.PriorityLow)
			So(scoring.Classify(55, 100), ShouldEqual, model.PriorityLow)
		})
		Convey("Then exceeding the target is low with no gap", func() {
			So(scoring.Classify(95, 80), ShouldEqual, model.PriorityLow)
			So(scoring.Gap(95, 80), ShouldEqual, 0)
		})
	})
}

func TestScoreConversions(t *testing.T) {
	Convey("Given weights and confidences", t, func() {
		So(scoring.TargetScore(1.0), ShouldEqual, 100)
		So(scoring.TargetScore(0.9), ShouldEqual, 90)
		So(scoring.TargetScore(0.001), ShouldEqual, 1)
		So(scoring.UserScore(0.85), ShouldEqual, 85)
		So(scoring.UserScore(0.005), ShouldEqual, 1)
		So(scoring.UserScore(0), ShouldEqual, 0)
	})
}

func TestScore(t *testing.T) {
	Convey("Given a role requiring a single skill", t, func() {
		r := role("Backend Developer", req("Go", 1.0))

		Convey("When the learner lacks it", func() {
			gaps, err := scoring.Score(nil, r)

			Convey("Then it is missing with the full target and high priority", func() {
				So(err, ShouldBeNil)
				So(gaps, ShouldHaveLength, 1)
				So(gaps[0].SkillName, ShouldEqual, "Go")
				So(gaps[0].UserScore, ShouldEqual, 0)
				So(gaps[0].SuggestedScore, ShouldEqual, 100)
				So(gaps[0].Gap, ShouldEqual, 100)
				So(gaps[0].Priority, ShouldEqual, model.PriorityHigh)
				So(gaps[0].Required, ShouldBeTrue)
				So(gaps[0].Rationale, ShouldEqual, "missing; target 100 for Backend Developer")
			})
		})

		Convey("When the learner meets it under a different spelling", func() {
			gaps, err := scoring.Score([]model.Skill{skill("  go ", 1.0)}, r)

			Convey("Then the role's spelling is reported with no gap", func() {
				So(err, ShouldBeNil)
				So(gaps[0].SkillName, ShouldEqual, "Go")
				So(gaps[0].Gap, ShouldEqual, 0)
				So(gaps[0].Priority, ShouldEqual, model.PriorityLow)
				So(gaps[0].Rationale, ShouldEqual, "meets target 100 for Backend Developer")
			})
		})
	})

	Convey("Given a learner with required and extra skills", t, func() {
		r := role("Frontend Developer", req("TypeScript", 0.9), req("React", 0.8))
		skills := []model.Skill{
			skill("Photoshop", 0.7),
			skill("React", 0.5),
		}

		gaps, err := scoring.Score(skills, r)

		Convey("Then required skills come first in role order and extras follow", func() {
			So(err, ShouldBeNil)
			So(gaps, ShouldHaveLength, 3)
			So(gaps[0].SkillName, ShouldEqual, "TypeScript")
			So(gaps[1].SkillName, ShouldEqual, "React")
			So(gaps[2].SkillName, ShouldEqual, "Photoshop")
		})

		Convey("Then the partially met skill carries its current score", func() {
			So(gaps[1].UserScore, ShouldEqual, 50)
			So(gaps[1].SuggestedScore, ShouldEqual, 80)
			So(gaps[1].Gap, ShouldEqual, 30)
			So(gaps[1].Priority, ShouldEqual, model.PriorityMedium)
			So(gaps[1].Rationale, ShouldEqual, "current 50, target 80 for Frontend Developer")
		})

		Convey("Then the extra skill is low, not required and has no gap", func() {
			So(gaps[2].Required, ShouldBeFalse)
			So(gaps[2].Priority, ShouldEqual, model.PriorityLow)
			So(gaps[2].UserScore, ShouldEqual, 70)
			So(gaps[2].SuggestedScore, ShouldEqual, 70)
			So(gaps[2].Gap, ShouldEqual, 0)
			So(gaps[2].Rationale, ShouldEqual, "not required for Frontend Developer")
		})

		Convey("Then every entry satisfies the score bounds", func() {
			for _, g := range gaps {
				So(g.UserScore, ShouldBeBetweenOrEqual, 0, 100)
				So(g.SuggestedScore, ShouldBeBetweenOrEqual, 0, 100)
				So(g.Gap, ShouldEqual, max(0, g.SuggestedScore-g.UserScore))
			}
		})
	})

	Convey("Given a role with no required skills", t, func() {
		gaps, err := scoring.Score([]model.Skill{skill("Go", 0.4)}, role("Generalist"))

		Convey("Then only the learner's skills are reported", func() {
			So(err, ShouldBeNil)
			So(gaps, ShouldHaveLength, 1)
			So(gaps[0].Required, ShouldBeFalse)
		})
	})
}

func TestScoreInvalidInput(t *testing.T) {
	Convey("Given malformed roles", t, func() {
		Convey("When a weight exceeds 1", func() {
			_, err := scoring.Score(nil, role("X", req("Go", 1.2)))

			Convey("Then it fails with InvalidInput on the weight", func() {
				So(model.IsInvalidInput(err), ShouldBeTrue)
				So(model.FieldOf(err), ShouldEqual, "role.required_skills[0].weight")
			})
		})

		Convey("When a weight is zero or NaN", func() {
			_, err := scoring.Score(nil, role("X", req("Go", 0)))
			So(model.IsInvalidInput(err), ShouldBeTrue)

			_, err = scoring.Score(nil, role("X", req("Go", math.NaN())))
			So(model.IsInvalidInput(err), ShouldBeTrue)
		})

		Convey("When a required skill is listed twice", func() {
			_, err := scoring.Score(nil, role("X", req("Go", 0.5), req(" GO", 0.6)))

			Convey("Then the duplicate is reported", func() {
				So(model.IsInvalidInput(err), ShouldBeTrue)
				So(model.FieldOf(err), ShouldEqual, "role.required_skills[1].name")
			})
		})

		Convey("When the role name is blank", func() {
			So(scoring.ValidateRole(role("  ")), ShouldNotBeNil)
		})

		Convey("When a required skill name is blank", func() {
			err := scoring.ValidateRole(role("X", req("", 0.5)))
			So(model.FieldOf(err), ShouldEqual, "role.required_skills[0].name")
		})
	})

	Convey("Given malformed skills", t, func() {
		r := role("X", req("Go", 0.5))

		Convey("When a confidence is out of range", func() {
			_, err := scoring.Score([]model.Skill{skill("Go", 1.5)}, r)
			So(model.IsInvalidInput(err), ShouldBeTrue)
			So(model.FieldOf(err), ShouldEqual, "skills[0].confidence")
		})

		Convey("When two skills share a canonical name", func() {
			_, err := scoring.Score([]model.Skill{skill("Go", 0.5), skill("go", 0.7)}, r)
			So(model.IsInvalidInput(err), ShouldBeTrue)
		})
	})
}
