package scoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	catalog "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	model "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	scoring "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// splitQuestion builds a normal question whose three scored options carry
// 5/3/2 points for categories A/B/C, plus one decorative option.
func splitQuestion(id string) model.Question {
	return model.Question{
		ID:   id,
		Kind: model.KindNormal,
		Options: []model.Option{
			{ID: id + "-a", StyleCategory: "A", Points: 5},
			{ID: id + "-b", StyleCategory: "B", Points: 3},
			{ID: id + "-c", StyleCategory: "C", Points: 2},
			{ID: id + "-d"},
		},
	}
}

func answerAll(q model.Question, ids ...string) model.Answer {
	return model.Answer{QuestionID: q.ID, SelectedOptionIDs: ids, RecordedAt: time.Now()}
}

func TestScore(t *testing.T) {
	Convey("Given a catalog with two 5-3-2 split questions", t, func() {
		q1 := splitQuestion("q1")
		q2 := splitQuestion("q2")
		strat := model.Question{ID: "s1", Kind: model.KindStrategic, Options: []model.Option{
			{ID: "s1-a", StyleCategory: "A", Points: 50},
			{ID: "s1-b"},
		}}
		cat, err := catalog.New([]model.Question{q1, q2, strat})
		So(err, ShouldBeNil)

		engine := scoring.NewEngine()

		Convey("When both questions are fully answered", func() {
			answers := map[string]model.Answer{
				"q1": answerAll(q1, "q1-a", "q1-b", "q1-c"),
				"q2": answerAll(q2, "q2-a", "q2-b", "q2-c"),
			}

			result, err := engine.Score(context.Background(), answers, cat)
			So(err, ShouldBeNil)

			Convey("Then the highest accumulated category is primary", func() {
				So(result.PrimaryStyle.Category, ShouldEqual, "A")
				So(result.PrimaryStyle.RawPoints, ShouldEqual, 10)
				So(result.PrimaryStyle.Rank, ShouldEqual, 1)
				So(result.TotalPoints, ShouldEqual, 20)
			})

			Convey("Then secondaries are ranked 2..N", func() {
				So(len(result.SecondaryStyles), ShouldEqual, 2)
				So(result.SecondaryStyles[0].Category, ShouldEqual, "B")
				So(result.SecondaryStyles[0].Rank, ShouldEqual, 2)
				So(result.SecondaryStyles[1].Category, ShouldEqual, "C")
				So(result.SecondaryStyles[1].Rank, ShouldEqual, 3)
			})

			Convey("Then percentages sum to 100 within rounding tolerance", func() {
				sum := result.PrimaryStyle.Percentage
				for _, s := range result.SecondaryStyles {
					sum += s.Percentage
				}
				So(sum, ShouldBeBetweenOrEqual, 99, 101)
			})

			Convey("Then scoring is idempotent", func() {
				again, err := engine.Score(context.Background(), answers, cat)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, result)
			})
		})

		Convey("When a strategic answer is present it is excluded from scoring", func() {
			answers := map[string]model.Answer{
				"q1": answerAll(q1, "q1-a", "q1-b", "q1-c"),
				"s1": {QuestionID: "s1", SelectedOptionIDs: []string{"s1-a"}},
			}

			result, err := engine.Score(context.Background(), answers, cat)
			So(err, ShouldBeNil)
			So(result.TotalPoints, ShouldEqual, 10)
			So(result.PrimaryStyle.Category, ShouldEqual, "A")
		})

		Convey("When only decorative options are selected, ErrEmptyScore surfaces", func() {
			answers := map[string]model.Answer{
				"q1": answerAll(q1, "q1-d"),
			}

			_, err := engine.Score(context.Background(), answers, cat)
			So(errors.Is(err, scoring.ErrEmptyScore), ShouldBeTrue)
		})

		Convey("When there are no answers at all, ErrEmptyScore surfaces", func() {
			_, err := engine.Score(context.Background(), nil, cat)
			So(errors.Is(err, scoring.ErrEmptyScore), ShouldBeTrue)
		})
	})

	Convey("Given categories with equal points", t, func() {
		// B's first contribution appears before A's in catalog order.
		q1 := model.Question{ID: "q1", Kind: model.KindNormal, SelectionCount: 2, Options: []model.Option{
			{ID: "q1-b", StyleCategory: "B", Points: 4},
			{ID: "q1-a", StyleCategory: "A", Points: 4},
		}}
		cat, err := catalog.New([]model.Question{q1})
		So(err, ShouldBeNil)

		Convey("Then the earlier first catalog occurrence wins the tie", func() {
			answers := map[string]model.Answer{
				// Selection insertion order says A first; catalog order
				// still decides the tie.
				"q1": answerAll(q1, "q1-a", "q1-b"),
			}

			result, err := scoring.NewEngine().Score(context.Background(), answers, cat)
			So(err, ShouldBeNil)
			So(result.PrimaryStyle.Category, ShouldEqual, "B")
			So(result.SecondaryStyles[0].Category, ShouldEqual, "A")
		})
	})

	Convey("Given a maxSecondary override", t, func() {
		q1 := splitQuestion("q1")
		cat, err := catalog.New([]model.Question{q1})
		So(err, ShouldBeNil)

		Convey("Then the secondary list is capped", func() {
			answers := map[string]model.Answer{"q1": answerAll(q1, "q1-a", "q1-b", "q1-c")}

			result, err := scoring.NewEngine(scoring.WithMaxSecondary(1)).Score(context.Background(), answers, cat)
			So(err, ShouldBeNil)
			So(len(result.SecondaryStyles), ShouldEqual, 1)
			So(result.SecondaryStyles[0].Category, ShouldEqual, "B")
		})
	})

	Convey("Given a cancelled context", t, func() {
		q1 := splitQuestion("q1")
		cat, err := catalog.New([]model.Question{q1})
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then scoring reports the cancellation", func() {
			_, err := scoring.NewEngine().Score(ctx, nil, cat)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
