// Package metricsexport renders a sim.KPIReport as Prometheus gauges, for
// operators who want to scrape a completed run's KPIs rather than parse the
// printed report (spec.md §6.2 lists dashboards as an
// external collaborator; SPEC_FULL.md's DOMAIN STACK wires
// prometheus/client_golang in as that collaborator's concrete shape).
//
// Grounded on 99souls-ariadne's use of prometheus/client_golang: a
// collector struct holding the source data plus one Desc per exported
// metric, implementing prometheus.Collector directly instead of using the
// default registry's auto-registered Gauge/Counter types, since the report
// is a fixed, already-computed snapshot rather than something updated
// in-place during a request lifecycle.
package metricsexport

import (
	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/OpenRailAssociation/popupsim/sim"
)

// KPICollector exposes a completed run's KPIReport as Prometheus gauges.
type KPICollector struct {
	report *sim.KPIReport

	workshopThroughput  *prometheus.Desc
	workshopUtilization *prometheus.Desc
	trackUtilization    *prometheus.Desc
	wagonsArrived       *prometheus.Desc
	wagonsRetrofitted   *prometheus.Desc
	wagonsRejected      *prometheus.Desc
	wagonsInFlight      *prometheus.Desc
}

// NewKPICollector wraps report for registration with a prometheus.Registry.
func NewKPICollector(report *sim.KPIReport) *KPICollector {
	return &KPICollector{
		report: report,
		workshopThroughput: prometheus.NewDesc(
			"popupsim_workshop_throughput_per_hour",
			"Completed retrofits per hour for a workshop.",
			[]string{"workshop_id"}, nil,
		),
		workshopUtilization: prometheus.NewDesc(
			"popupsim_workshop_utilization_percent",
			"Occupied-station-minutes as a percentage of available station-minutes.",
			[]string{"workshop_id"}, nil,
		),
		trackUtilization: prometheus.NewDesc(
			"popupsim_track_utilization_percent",
			"Time-weighted occupancy as a percentage of track length over the run.",
			[]string{"track_id"}, nil,
		),
		wagonsArrived: prometheus.NewDesc(
			"popupsim_wagons_arrived_total", "Total wagons that arrived during the run.", nil, nil,
		),
		wagonsRetrofitted: prometheus.NewDesc(
			"popupsim_wagons_retrofitted_total", "Total wagons that reached PARKED.", nil, nil,
		),
		wagonsRejected: prometheus.NewDesc(
			"popupsim_wagons_rejected_total", "Total wagons that were rejected.", nil, nil,
		),
		wagonsInFlight: prometheus.NewDesc(
			"popupsim_wagons_in_flight", "Wagons still in the pipeline at the horizon.", nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KPICollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workshopThroughput
	ch <- c.workshopUtilization
	ch <- c.trackUtilization
	ch <- c.wagonsArrived
	ch <- c.wagonsRetrofitted
	ch <- c.wagonsRejected
	ch <- c.wagonsInFlight
}

// Collect implements prometheus.Collector.
func (c *KPICollector) Collect(ch chan<- prometheus.Metric) {
	for id, w := range c.report.Workshops {
		ch <- prometheus.MustNewConstMetric(c.workshopThroughput, prometheus.GaugeValue, w.ThroughputPerHour, string(id))
		ch <- prometheus.MustNewConstMetric(c.workshopUtilization, prometheus.GaugeValue, w.UtilizationPercent, string(id))
	}
	for id, t := range c.report.Tracks {
		ch <- prometheus.MustNewConstMetric(c.trackUtilization, prometheus.GaugeValue, t.UtilizationPercent, string(id))
	}
	ch <- prometheus.MustNewConstMetric(c.wagonsArrived, prometheus.GaugeValue, float64(c.report.Aggregate.WagonsArrived))
	ch <- prometheus.MustNewConstMetric(c.wagonsRetrofitted, prometheus.GaugeValue, float64(c.report.Aggregate.WagonsRetrofitted))
	ch <- prometheus.MustNewConstMetric(c.wagonsRejected, prometheus.GaugeValue, float64(c.report.Aggregate.WagonsRejected))
	ch <- prometheus.MustNewConstMetric(c.wagonsInFlight, prometheus.GaugeValue, float64(c.report.Aggregate.WagonsInFlight))
}
