package metricsexport

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/OpenRailAssociation/popupsim/sim"
)

func TestKPICollector_DescribeEmitsEveryDesc(t *testing.T) {
	// GIVEN a collector wrapping an empty report
	c := NewKPICollector(&sim.KPIReport{})

	// WHEN Describe is drained
	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	// THEN one Desc per exported metric is sent
	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, 7, count)
}

func TestKPICollector_CollectRendersReportValues(t *testing.T) {
	// GIVEN a report with one workshop, one track, and aggregate totals
	report := &sim.KPIReport{
		Workshops: map[sim.WorkshopID]*sim.WorkshopKPI{
			"WS1": {ThroughputPerHour: 6, UtilizationPercent: 50},
		},
		Tracks: map[sim.TrackID]*sim.TrackKPI{
			"T1": {UtilizationPercent: 75},
		},
		Aggregate: sim.AggregateKPI{
			WagonsArrived:     10,
			WagonsRetrofitted: 7,
			WagonsRejected:    1,
			WagonsInFlight:    2,
		},
	}
	c := NewKPICollector(report)

	// WHEN registered with a fresh registry
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	// THEN the gathered text exposition matches the report's values
	expected := strings.NewReader(`
		# HELP popupsim_wagons_arrived_total Total wagons that arrived during the run.
		# TYPE popupsim_wagons_arrived_total gauge
		popupsim_wagons_arrived_total 10
		# HELP popupsim_wagons_retrofitted_total Total wagons that reached PARKED.
		# TYPE popupsim_wagons_retrofitted_total gauge
		popupsim_wagons_retrofitted_total 7
		# HELP popupsim_wagons_rejected_total Total wagons that were rejected.
		# TYPE popupsim_wagons_rejected_total gauge
		popupsim_wagons_rejected_total 1
		# HELP popupsim_wagons_in_flight Wagons still in the pipeline at the horizon.
		# TYPE popupsim_wagons_in_flight gauge
		popupsim_wagons_in_flight 2
		# HELP popupsim_workshop_throughput_per_hour Completed retrofits per hour for a workshop.
		# TYPE popupsim_workshop_throughput_per_hour gauge
		popupsim_workshop_throughput_per_hour{workshop_id="WS1"} 6
		# HELP popupsim_workshop_utilization_percent Occupied-station-minutes as a percentage of available station-minutes.
		# TYPE popupsim_workshop_utilization_percent gauge
		popupsim_workshop_utilization_percent{workshop_id="WS1"} 50
		# HELP popupsim_track_utilization_percent Time-weighted occupancy as a percentage of track length over the run.
		# TYPE popupsim_track_utilization_percent gauge
		popupsim_track_utilization_percent{track_id="T1"} 75
	`)
	assert.NoError(t, testutil.GatherAndCompare(reg, expected,
		"popupsim_wagons_arrived_total",
		"popupsim_wagons_retrofitted_total",
		"popupsim_wagons_rejected_total",
		"popupsim_wagons_in_flight",
		"popupsim_workshop_throughput_per_hour",
		"popupsim_workshop_utilization_percent",
		"popupsim_track_utilization_percent",
	))
}
