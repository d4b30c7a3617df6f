package metrics_test

import (
	"testing"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the default metrics manager", t, func() {
		Convey("The registry is available for scraping", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})

		Convey("Recording helpers do not panic", func() {
			So(func() {
				metrics.RecordSessionStarted()
				metrics.RecordSessionCompleted()
				metrics.RecordUndefinedStyle()
				metrics.UpdateActiveSessions(3)
				metrics.RecordAnswerRecorded()
				metrics.RecordAnswerRejected("limit_reached")
				metrics.RecordStaleAnswer()
				metrics.RecordAutoAdvanceArmed()
				metrics.RecordAutoAdvanceFired()
				metrics.RecordAutoAdvanceCancelled()
				metrics.RecordStorageError("set")
				metrics.RecordAnalyticsEmitted()
				metrics.RecordAnalyticsDropped()
				metrics.UpdateAnalyticsQueueDepth(7)
				metrics.RecordHTTPRequest("sessions", "POST", "201")
				metrics.RecordHTTPRequestDuration("sessions", "POST", "201", 4.2)
			}, ShouldNotPanic)
		})

		Convey("Gathering exposes the registered families", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["quiz_sessions_started_total"], ShouldBeTrue)
			So(names["quiz_auto_advance_cancelled_total"], ShouldBeTrue)
		})
	})

	Convey("Given a custom namespace", t, func() {
		m := metrics.NewManager(metrics.WithNamespace("styleq"))
		So(m, ShouldNotBeNil)
	})
}
