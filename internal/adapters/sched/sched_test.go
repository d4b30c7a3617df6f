package sched_test

import (
	"sync/atomic"
	"testing"
	"time"

	sched "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/sched"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimerScheduler(t *testing.T) {
	Convey("Given the wall-clock scheduler", t, func() {
		s := sched.NewTimerScheduler()

		Convey("A scheduled action fires after the delay", func() {
			done := make(chan struct{})
			s.Schedule(5*time.Millisecond, func() { close(done) })

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("scheduled action never fired")
			}
		})

		Convey("A cancelled action never fires", func() {
			var fired atomic.Bool
			h := s.Schedule(20*time.Millisecond, func() { fired.Store(true) })

			So(h.Cancel(), ShouldBeTrue)
			time.Sleep(60 * time.Millisecond)
			So(fired.Load(), ShouldBeFalse)

			Convey("And cancelling twice reports nothing pending", func() {
				So(h.Cancel(), ShouldBeFalse)
			})
		})

		Convey("Cancelling after the action ran reports false", func() {
			done := make(chan struct{})
			h := s.Schedule(time.Millisecond, func() { close(done) })
			<-done
			So(h.Cancel(), ShouldBeFalse)
		})
	})
}

func TestManualScheduler(t *testing.T) {
	Convey("Given the manual scheduler", t, func() {
		s := sched.NewManualScheduler()

		Convey("Actions wait until fired explicitly", func() {
			var count atomic.Int32
			s.Schedule(time.Hour, func() { count.Add(1) })
			s.Schedule(time.Hour, func() { count.Add(1) })

			So(s.Pending(), ShouldEqual, 2)
			So(count.Load(), ShouldEqual, 0)

			So(s.Fire(), ShouldEqual, 2)
			So(count.Load(), ShouldEqual, 2)
			So(s.Pending(), ShouldEqual, 0)
		})

		Convey("Cancelled actions are skipped by Fire", func() {
			var count atomic.Int32
			h := s.Schedule(time.Hour, func() { count.Add(1) })
			s.Schedule(time.Hour, func() { count.Add(1) })

			So(h.Cancel(), ShouldBeTrue)
			So(s.Pending(), ShouldEqual, 1)
			So(s.Fire(), ShouldEqual, 1)
			So(count.Load(), ShouldEqual, 1)
		})
	})
}
