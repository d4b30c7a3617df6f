package types_test

import (
	"testing"

	types "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStyleCount(t *testing.T) {
	Convey("Given a StyleCount struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.StyleCount{
				Rank:     1,
				Category: "boho",
				Sessions: 42,
			}

			Convey("Then it should have the correct values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.Category, ShouldEqual, "boho")
				So(entry.Sessions, ShouldEqual, 42)
			})
		})

		Convey("When creating an entry with zero values", func() {
			entry := types.StyleCount{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.Category, ShouldEqual, "")
				So(entry.Sessions, ShouldEqual, 0)
			})
		})
	})
}
