package cmd

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	sim "github.com/OpenRailAssociation/popupsim/sim"
	"github.com/OpenRailAssociation/popupsim/sim/metricsexport"
)

// serveMetrics registers a KPICollector for result and blocks serving
// /metrics on addr, so an operator can point Prometheus at a completed
// run's KPIs (spec.md §6.2's dashboard collaborator, wired concretely per
// SPEC_FULL.md's DOMAIN STACK).
func serveMetrics(addr string, result sim.RunResult) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(metricsexport.NewKPICollector(result.KPIs))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logrus.Infof("serving KPI metrics on %s/metrics", addr)
	return http.ListenAndServe(addr, mux)
}
