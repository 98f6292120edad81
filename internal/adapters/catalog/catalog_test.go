package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/skillgap/internal/adapters/catalog"
	"github.com/okian/skillgap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltin(t *testing.T) {
	Convey("Given the builtin catalog", t, func() {
		c, err := catalog.Builtin()

		Convey("Then it loads and validates", func() {
			So(err, ShouldBeNil)
			So(c.Len(), ShouldEqual, 6)
		})

		Convey("Then lookups ignore case and spacing", func() {
			r, err := c.Get("  senior   full-stack DEVELOPER ")
			So(err, ShouldBeNil)
			So(r.RoleName, ShouldEqual, "Senior Full-Stack Developer")
			So(r.RequiredSkills, ShouldNotBeEmpty)
		})

		Convey("Then an unknown role is reported", func() {
			_, err := c.Get("Astronaut")
			So(errors.Is(err, catalog.ErrRoleNotFound), ShouldBeTrue)
		})

		Convey("Then the list is sorted by name", func() {
			list := c.List()
			So(list, ShouldHaveLength, 6)
			So(list[0].RoleName, ShouldEqual, "Backend Developer")
			So(list[5].RoleName, ShouldEqual, "Senior Full-Stack Developer")
		})

		Convey("Then returned roles are copies", func() {
			r, _ := c.Get("Backend Developer")
			r.RequiredSkills[0].Weight = 0.01
			again, _ := c.Get("Backend Developer")
			So(again.RequiredSkills[0].Weight, ShouldNotEqual, 0.01)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given role profiles", t, func() {
		Convey("When two names fold to the same role", func() {
			_, err := catalog.New(
				model.RoleProfile{RoleName: "QA Engineer"},
				model.RoleProfile{RoleName: "qa  engineer"},
			)
			So(errors.Is(err, catalog.ErrDuplicateRole), ShouldBeTrue)
		})

		Convey("When a role has an invalid weight", func() {
			_, err := catalog.New(model.RoleProfile{
				RoleName:       "QA Engineer",
				RequiredSkills: []model.RequiredSkill{{Name: "Testing", Weight: 1.5}},
			})
			So(model.IsInvalidInput(err), ShouldBeTrue)
			So(model.FieldOf(err), ShouldEqual, "role.required_skills[0].weight")
		})
	})
}

func TestLoadFileAndMerge(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		path := writeFile(t, `
roles:
  - role_name: Backend Developer
    required_skills:
      - { name: Rust, weight: 1 }
  - role_name: QA Engineer
    required_skills:
      - { name: Testing, weight: 0.9 }
`)

		overlay, err := catalog.LoadFile(path)
		So(err, ShouldBeNil)
		So(overlay.Len(), ShouldEqual, 2)

		Convey("When merged over the builtin catalog", func() {
			base, err := catalog.Builtin()
			So(err, ShouldBeNil)
			merged := catalog.Merge(base, overlay)

			Convey("Then file roles replace and extend the builtin ones", func() {
				So(merged.Len(), ShouldEqual, 7)
				r, err := merged.Get("backend developer")
				So(err, ShouldBeNil)
				So(r.RequiredSkills, ShouldHaveLength, 1)
				So(r.RequiredSkills[0].Name, ShouldEqual, "Rust")
			})

			Convey("Then the base catalog is untouched", func() {
				r, _ := base.Get("Backend Developer")
				So(len(r.RequiredSkills), ShouldBeGreaterThan, 1)
			})
		})
	})

	Convey("Given a file with an unknown key", t, func() {
		path := writeFile(t, "roles:\n  - role_name: X\n    skils: []\n")
		_, err := catalog.LoadFile(path)
		So(errors.Is(err, catalog.ErrInvalidFile), ShouldBeTrue)
	})

	Convey("Given a missing file", t, func() {
		_, err := catalog.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}
