package model_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/skillgap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRawSkillJSON(t *testing.T) {
	Convey("Given raw skill JSON payloads", t, func() {
		Convey("When decoding a bare string", func() {
			var r model.RawSkill
			err := json.Unmarshal([]byte(`"React"`), &r)

			Convey("Then the name is set and confidence is absent", func() {
				So(err, ShouldBeNil)
				So(r.Name, ShouldEqual, "React")
				So(r.Confidence, ShouldBeNil)
			})
		})

		Convey("When decoding an object with confidence", func() {
			var r model.RawSkill
			err := json.Unmarshal([]byte(`{"name":"Go","confidence":0.75}`), &r)

			Convey("Then both fields are set", func() {
				So(err, ShouldBeNil)
				So(r.Name, ShouldEqual, "Go")
				So(r.Confidence, ShouldNotBeNil)
				So(*r.Confidence, ShouldEqual, 0.75)
			})
		})

		Convey("When decoding a mixed list", func() {
			var list []model.RawSkill
			err := json.Unmarshal([]byte(`["SQL", {"name":"AWS"}, {"name":"Docker","confidence":1}]`), &list)

			Convey("Then every element is decoded in order", func() {
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				So(list[0].Name, ShouldEqual, "SQL")
				So(list[1].Confidence, ShouldBeNil)
				So(*list[2].Confidence, ShouldEqual, 1.0)
			})
		})

		Convey("When decoding null or a number", func() {
			var r model.RawSkill
			So(json.Unmarshal([]byte(`null`), &r), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`42`), &r), ShouldNotBeNil)
		})

		Convey("When encoding a skill without confidence", func() {
			out, err := json.Marshal(model.RawSkill{Name: "Go"})

			Convey("Then confidence is omitted", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"name":"Go"}`)
			})
		})
	})
}

func TestPriority(t *testing.T) {
	Convey("Given the priority tiers", t, func() {
		So(model.PriorityHigh.Severity(), ShouldBeGreaterThan, model.PriorityMedium.Severity())
		So(model.PriorityMedium.Severity(), ShouldBeGreaterThan, model.PriorityLow.Severity())
		So(model.PriorityLow.Valid(), ShouldBeTrue)
		So(model.Priority("urgent").Valid(), ShouldBeFalse)
	})
}

func TestFieldError(t *testing.T) {
	Convey("Given a field error", t, func() {
		err := model.InvalidInput("normalize", "skills[2].confidence", "must be within [0,1]")

		Convey("Then it matches its kind and exposes the field", func() {
			So(model.IsInvalidInput(err), ShouldBeTrue)
			So(model.IsInternalInvariant(err), ShouldBeFalse)
			So(model.FieldOf(err), ShouldEqual, "skills[2].confidence")
			So(err.Error(), ShouldEqual, "normalize: invalid input: skills[2].confidence: must be within [0,1]")
		})

		Convey("And wrapping keeps it reachable", func() {
			wrapped := fmt.Errorf("analyze: %w", err)
			So(errors.Is(wrapped, model.ErrInvalidInput), ShouldBeTrue)
			So(model.FieldOf(wrapped), ShouldEqual, "skills[2].confidence")
		})

		Convey("And an invariant violation is its own kind", func() {
			v := model.InvariantViolation("compose", "gaps[0].user_score", "out of range")
			So(model.IsInternalInvariant(v), ShouldBeTrue)
			So(model.IsInvalidInput(v), ShouldBeFalse)
		})
	})
}

func TestAnalysisJobTargetRole(t *testing.T) {
	Convey("Given an analysis job", t, func() {
		job := model.AnalysisJob{RoleName: "Backend Developer"}
		So(job.TargetRole(), ShouldEqual, "Backend Developer")

		job.Role = &model.RoleProfile{RoleName: "Custom"}
		So(job.TargetRole(), ShouldEqual, "Custom")
	})
}
