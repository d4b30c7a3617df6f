package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/sched"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/storage"
	service "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/app"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/flow"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func serviceCatalog() *catalog.Catalog {
	questions := []model.Question{
		{ID: "n1", Kind: model.KindNormal, SelectionCount: 1, Options: []model.Option{
			{ID: "n1-a", StyleCategory: "boho", Points: 5},
			{ID: "n1-b", StyleCategory: "modern", Points: 3},
		}},
		{ID: "s1", Kind: model.KindStrategic, Options: []model.Option{
			{ID: "s1-a"}, {ID: "s1-b"},
		}},
	}
	c, err := catalog.New(questions)
	So(err, ShouldBeNil)
	return c
}

func startedService() *service.Service {
	svc := service.New(serviceCatalog(),
		service.WithLogger(logger.Nop()),
		service.WithStore(storage.NewMemoryStore()),
		service.WithScheduler(sched.NewManualScheduler()),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

// finishSession walks one session from name to result and returns its id.
func finishSession(svc *service.Service, name string) (string, model.ScoringResult) {
	ctx := context.Background()
	snap, err := svc.CreateSession(ctx, name)
	So(err, ShouldBeNil)

	_, err = svc.Select(ctx, snap.ID, "n1", "n1-a")
	So(err, ShouldBeNil)
	_, err = svc.Next(ctx, snap.ID)
	So(err, ShouldBeNil)
	_, err = svc.ConfirmMain(ctx, snap.ID)
	So(err, ShouldBeNil)
	_, err = svc.Select(ctx, snap.ID, "s1", "s1-a")
	So(err, ShouldBeNil)
	_, err = svc.Next(ctx, snap.ID)
	So(err, ShouldBeNil)

	result, err := svc.SeeResult(ctx, snap.ID)
	So(err, ShouldBeNil)
	return snap.ID, result
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given an unstarted service", t, func() {
		svc := service.New(serviceCatalog(), service.WithLogger(logger.Nop()))
		ctx := context.Background()

		Convey("Calls before Start are refused", func() {
			_, err := svc.CreateSession(ctx, "Ana")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.TopStyles(ctx, 5)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Start is idempotent", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
		})

		Convey("Stop without Start is a no-op", func() {
			svc.Stop()
		})
	})
}

func TestServiceSessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		ctx := context.Background()

		Convey("CreateSession mints distinct ids", func() {
			a, err := svc.CreateSession(ctx, "Ana")
			So(err, ShouldBeNil)
			b, err := svc.CreateSession(ctx, "Bia")
			So(err, ShouldBeNil)

			So(a.ID, ShouldNotEqual, b.ID)
			So(a.Phase, ShouldEqual, model.PhaseNormal)
			So(a.ActiveQuestion.ID, ShouldEqual, "n1")
		})

		Convey("CreateSession with a blank name is refused and not registered", func() {
			_, err := svc.CreateSession(ctx, "  ")
			So(errors.Is(err, flow.ErrEmptyName), ShouldBeTrue)
			So(svc.GetStats().ActiveSessions, ShouldEqual, 0)
		})

		Convey("Calls against an unknown session fail", func() {
			_, err := svc.Session(ctx, "nope")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)

			_, err = svc.Select(ctx, "nope", "n1", "n1-a")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)

			_, err = svc.Next(ctx, "nope")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})

		Convey("A finished session folds into the style tally", func() {
			_, result := finishSession(svc, "Ana")
			So(result.PrimaryStyle.Category, ShouldEqual, "boho")

			finishSession(svc, "Bia")

			counts, err := svc.TopStyles(ctx, 5)
			So(err, ShouldBeNil)
			So(len(counts), ShouldEqual, 1)
			So(counts[0].Category, ShouldEqual, "boho")
			So(counts[0].Sessions, ShouldEqual, 2)
			So(counts[0].Rank, ShouldEqual, 1)
		})

		Convey("Result re-reads a finished session", func() {
			id, result := finishSession(svc, "Ana")

			So(svc.GetStats().ActiveSessions, ShouldEqual, 1)

			got, undefined, err := svc.Result(ctx, id)
			So(err, ShouldBeNil)
			So(undefined, ShouldBeFalse)
			So(got, ShouldResemble, result)
		})
	})
}

func TestServiceStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()

		stats := svc.GetStats()
		So(stats.Started, ShouldBeTrue)
		So(stats.ActiveSessions, ShouldEqual, 0)
		So(stats.NormalQuestions, ShouldEqual, 1)
		So(stats.StrategicQuestions, ShouldEqual, 1)
		So(stats.TrackedStyles, ShouldEqual, 0)

		Convey("Stop clears the session registry", func() {
			ctx := context.Background()
			_, err := svc.CreateSession(ctx, "Ana")
			So(err, ShouldBeNil)
			So(svc.GetStats().ActiveSessions, ShouldEqual, 1)

			svc.Stop()
			So(svc.GetStats().ActiveSessions, ShouldEqual, 0)
		})
	})
}
