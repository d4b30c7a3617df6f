package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemTally(t *testing.T) {
	Convey("Given an in-memory tally", t, func() {
		tally := repository.NewMemTally()
		ctx := context.Background()

		Convey("An empty tally has no categories", func() {
			So(tally.Count(ctx), ShouldEqual, 0)
			top, err := tally.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
		})

		Convey("Recording primaries ranks categories by session count", func() {
			for range 3 {
				So(tally.RecordPrimary(ctx, "boho"), ShouldBeNil)
			}
			So(tally.RecordPrimary(ctx, "modern"), ShouldBeNil)
			So(tally.RecordPrimary(ctx, "rustic"), ShouldBeNil)
			So(tally.RecordPrimary(ctx, "rustic"), ShouldBeNil)

			So(tally.Count(ctx), ShouldEqual, 3)

			top, err := tally.TopN(ctx, 2)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[0].Category, ShouldEqual, "boho")
			So(top[0].Sessions, ShouldEqual, 3)
			So(top[0].Rank, ShouldEqual, 1)
			So(top[1].Category, ShouldEqual, "rustic")
			So(top[1].Rank, ShouldEqual, 2)
		})

		Convey("Equal counts tie-break by category name", func() {
			So(tally.RecordPrimary(ctx, "zen"), ShouldBeNil)
			So(tally.RecordPrimary(ctx, "art-deco"), ShouldBeNil)

			top, err := tally.TopN(ctx, 5)
			So(err, ShouldBeNil)
			So(top[0].Category, ShouldEqual, "art-deco")
			So(top[1].Category, ShouldEqual, "zen")
		})

		Convey("A non-positive limit is rejected", func() {
			_, err := tally.TopN(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("An empty category is rejected", func() {
			So(errors.Is(tally.RecordPrimary(ctx, ""), repository.ErrInvalidCategory), ShouldBeTrue)
		})
	})
}
