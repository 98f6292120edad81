package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/skillgap/internal/adapters/repository"
	"github.com/okian/skillgap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id string, status model.AnalysisStatus) model.AnalysisRecord {
	return model.AnalysisRecord{
		RequestID:   id,
		LearnerID:   "learner-1",
		RoleName:    "Backend Developer",
		Status:      status,
		SubmittedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestMemoryResultStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a result store", t, func() {
		s := repository.NewMemoryResultStore(repository.WithCapacity(3))

		Convey("When a record is stored", func() {
			So(s.Put(ctx, record("req-1", model.StatusPending)), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := s.Get(ctx, "req-1")
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, model.StatusPending)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("And it is completed later", func() {
				done := record("req-1", model.StatusDone)
				done.Bundle = &model.RecommendationBundle{RoleName: "Backend Developer", Readiness: 55}
				So(s.Put(ctx, done), ShouldBeNil)

				Convey("Then the record is replaced in place", func() {
					got, err := s.Get(ctx, "req-1")
					So(err, ShouldBeNil)
					So(got.Status, ShouldEqual, model.StatusDone)
					So(got.Bundle.Readiness, ShouldEqual, 55)
					So(s.Count(ctx), ShouldEqual, 1)
				})
			})
		})

		Convey("When more records than the capacity arrive", func() {
			for i := 1; i <= 4; i++ {
				So(s.Put(ctx, record(fmt.Sprintf("req-%d", i), model.StatusPending)), ShouldBeNil)
			}

			Convey("Then the oldest is evicted", func() {
				So(s.Count(ctx), ShouldEqual, 3)
				_, err := s.Get(ctx, "req-1")
				So(err, ShouldEqual, repository.ErrNotFound)
				_, err = s.Get(ctx, "req-4")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the request ID is empty", func() {
			So(s.Put(ctx, record("", model.StatusPending)), ShouldEqual, repository.ErrInvalidKey)
		})

		Convey("When a record is deleted", func() {
			So(s.Put(ctx, record("req-1", model.StatusPending)), ShouldBeNil)
			s.Delete(ctx, "req-1")
			s.Delete(ctx, "never-stored")

			Convey("Then it is gone", func() {
				_, err := s.Get(ctx, "req-1")
				So(err, ShouldEqual, repository.ErrNotFound)
				So(s.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the request ID is unknown", func() {
			_, err := s.Get(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})

	Convey("Given an unbounded store", t, func() {
		s := repository.NewMemoryResultStore(repository.WithCapacity(0))
		for i := 0; i < 50; i++ {
			So(s.Put(ctx, record(fmt.Sprintf("req-%d", i), model.StatusDone)), ShouldBeNil)
		}
		So(s.Count(ctx), ShouldEqual, 50)
	})
}
