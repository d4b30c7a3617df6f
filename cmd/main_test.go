package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/http/api"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/storage"
	app "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/app"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/config"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func mainTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]model.Question{
		{ID: "n1", Kind: model.KindNormal, SelectionCount: 1, Options: []model.Option{
			{ID: "n1-a", StyleCategory: "boho"},
			{ID: "n1-b"},
		}},
		{ID: "s1", Kind: model.KindStrategic, Options: []model.Option{{ID: "s1-a"}, {ID: "s1-b"}}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("QUIZ_ADDR", ":8080")
			_ = os.Setenv("QUIZ_EVENT_QUEUE_SIZE", "1000")
			_ = os.Setenv("QUIZ_AUTO_ADVANCE_DELAY_MS", "25")
			defer func() {
				_ = os.Unsetenv("QUIZ_ADDR")
				_ = os.Unsetenv("QUIZ_EVENT_QUEUE_SIZE")
				_ = os.Unsetenv("QUIZ_AUTO_ADVANCE_DELAY_MS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.AutoAdvanceDelayMS, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When testing store selection", func() {
			ctx := context.Background()

			convey.Convey("The memory backend needs no DSN", func() {
				cfg := config.New()
				store, err := newStore(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldNotBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})

			convey.Convey("The sqlite backend opens a database file", func() {
				cfg := config.New()
				cfg.StorageBackend = config.BackendSQLite
				cfg.StorageDSN = t.TempDir() + "/quiz.db"
				store, err := newStore(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.Set(ctx, "s", storage.KeyUserName, "Ana"), convey.ShouldBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation", func() {
			cat := mainTestCatalog(t)

			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New(cat, app.WithLogger(logger.Nop()))
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(cat,
					app.WithLogger(logger.Nop()),
					app.WithStore(storage.NewMemoryStore()),
					app.WithAutoAdvanceDelay(25*time.Millisecond),
					app.WithMaxSecondary(2),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			cat := mainTestCatalog(t)
			svc := app.New(cat, app.WithLogger(logger.Nop()))
			ctx := context.Background()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			apiServer := api.NewServer(svc, svc, 50)
			apiServer.Register(ctx, mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			convey.So(srv, convey.ShouldNotBeNil)
			convey.So(srv.Handler, convey.ShouldEqual, mux)
		})
	})
}
