package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/skillgap/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadinessEntry(t *testing.T) {
	Convey("Given a readiness entry", t, func() {
		entry := types.ReadinessEntry{Rank: 2, LearnerID: "learner-7", Readiness: 64}

		Convey("When encoding it as JSON", func() {
			out, err := json.Marshal(entry)

			Convey("Then it uses snake_case keys", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"rank":2,"learner_id":"learner-7","readiness":64}`)
			})
		})
	})
}

func TestRoleSummary(t *testing.T) {
	Convey("Given a role summary without a description", t, func() {
		out, err := json.Marshal(types.RoleSummary{RoleName: "Backend Developer", Skills: []string{"Go", "SQL"}})

		Convey("Then the description is omitted", func() {
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"role_name":"Backend Developer","skills":["Go","SQL"]}`)
		})
	})
}
