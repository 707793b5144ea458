package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/ranqr/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("engine"),
		)
		So(manager, ShouldNotBeNil)

		Convey("Then the registry gathers the engine metric families", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["test_engine_matchups_served_total"], ShouldBeTrue)
			So(names["test_engine_outcomes_recorded_total"], ShouldBeTrue)
			So(names["test_engine_comparisons_total"], ShouldBeTrue)
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the helpers record without panicking", func() {
			So(func() {
				metrics.RecordMatchupServed()
				metrics.RecordOutcomeRecorded()
				metrics.RecordOutcomeRejected()
				metrics.RecordTieRecorded()
				metrics.RecordSelectorLatency(1.5)
				metrics.UpdateCollectionsTotal(2)
				metrics.UpdateItemsTotal(10)
				metrics.RecordComparisonAppended()
				metrics.RecordRepositoryUpdateLatency(0.2)
				metrics.RecordRepositoryQueryLatency(0.1)
				metrics.RecordHTTPRequest("matchup", "GET", "200")
				metrics.RecordHTTPRequestDuration("matchup", "GET", "200", 3.0)
				metrics.RecordErrorByComponent("repository", "not_found")
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry is exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
