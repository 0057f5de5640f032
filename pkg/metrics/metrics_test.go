package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with default options", func() {
			m := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register under the league namespace", func() {
				So(m, ShouldNotBeNil)
				m.scoresAdmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "bakeoff_league_scores_admitted_total")
			})
		})

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("pre"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names should carry namespace, subsystem and prefix", func() {
				m.players.Set(3)
				So(testutil.ToFloat64(m.players), ShouldEqual, 3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_pre_players" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording a successful recalculation", func() {
			before := testutil.ToFloat64(globalManager.recalculations.WithLabelValues("success"))
			RecordRecalculation(1.5, 12, nil)

			Convey("Then the success counter and row gauge should move", func() {
				So(testutil.ToFloat64(globalManager.recalculations.WithLabelValues("success")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.seasonTotalRows), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.lastRecalculationUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording a failed recalculation", func() {
			RecordRecalculation(0, 5, nil)
			before := testutil.ToFloat64(globalManager.recalculations.WithLabelValues("failure"))
			RecordRecalculation(2, 99, errors.New("store down"))

			Convey("Then only the failure counter should move", func() {
				So(testutil.ToFloat64(globalManager.recalculations.WithLabelValues("failure")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.seasonTotalRows), ShouldEqual, 5)
			})
		})

		Convey("When recording scoring events", func() {
			before := testutil.ToFloat64(globalManager.scoreRejections.WithLabelValues("duplicate_winner"))
			RecordScoreRejected("duplicate_winner")
			RecordScoreAdmitted()
			RecordScoreUpdated()
			RecordScoreDeleted()
			RecordIdempotentReplay()
			UpdateLeagueSize(4, 12, 30)

			Convey("Then the matching collectors should reflect them", func() {
				So(testutil.ToFloat64(globalManager.scoreRejections.WithLabelValues("duplicate_winner")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.contestants), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.scores), ShouldEqual, 30)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
				RecordErrorByEndpoint("scores", "POST", "client_error")
				RecordErrorByType("client_error", "medium")
				RecordRepositoryQueryLatency("list_scores", 0.4)
				RecordRepositoryError("list_scores")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
