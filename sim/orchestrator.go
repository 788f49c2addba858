package sim

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/OpenRailAssociation/popupsim/sim/eventlog"
)

// RunResult bundles everything spec.md §6.3 requires a run to produce:
// the event log, the KPI report, and the final aborted/in-flight state.
// Grounded on the teacher's construct-then-run-once Simulator, generalized
// from "metrics + trace" to "events + kpis + final_state".
type RunResult struct {
	Events     []eventlog.Record
	KPIs       *KPIReport
	Aborted    bool
	AbortCause string
	// InFlightWagons counts wagons that reached neither PARKED nor REJECTED
	// by the horizon (spec.md §7 "Horizon reached with wagons in-flight").
	InFlightWagons int
}

// Run constructs a World from scn, schedules every train arrival, drives
// the clock to horizon, and returns the resulting RunResult (spec.md §6.3
// "run(scenario, horizon) -> RunResult"). A coordinator panicking with
// *AbortError is recovered here: the run stops immediately and the partial
// event log is still returned, rather than propagating the panic to the
// caller (spec.md §7 "Invariant violations... core stops the run").
func Run(scn *Scenario, horizon float64, tracer Tracer) (result RunResult) {
	w := NewWorld(scn, tracer)

	defer func() {
		if r := recover(); r != nil {
			abortErr, ok := r.(*AbortError)
			if !ok {
				panic(r)
			}
			w.abortRun(abortErr.Error())
			result = w.buildRunResult()
		}
	}()

	_, span := w.Tracer.StartSpan(context.Background(), "popupsim.run",
		attribute.Float64("horizon_minutes", horizon),
		attribute.Int("train_count", len(scn.Trains)),
	)
	defer span.End()

	w.ScheduleArrivals()
	w.Clock.RunUntil(horizon)
	result = w.buildRunResult()
	return result
}

// buildRunResult snapshots the event log and computes every KPI spec.md
// §4.8 names, using the clock's final time as sim_minutes and simEnd for
// closing open intervals.
func (w *World) buildRunResult() RunResult {
	simEnd := w.Clock.Now()

	report := &KPIReport{
		Workshops:   make(map[WorkshopID]*WorkshopKPI),
		Locomotives: make(map[LocomotiveID]*LocomotiveKPI),
		Tracks:      make(map[TrackID]*TrackKPI),
		Wagons:      make(map[WagonID]*WagonKPI),
	}

	for _, id := range w.Workshops.All() {
		workshop := w.Workshops.Workshop(id)
		report.Workshops[id] = computeWorkshopKPI(
			id,
			w.workshopCompleted[id],
			w.workshopRetrofitTime[id],
			w.workshopWaitTime[id],
			w.workshopOccupiedMin[id],
			workshop.RetrofitStations,
			simEnd,
		)
	}

	for _, loco := range w.Locos.All() {
		report.Locomotives[loco.LocomotiveID] = computeLocomotiveKPI(loco, simEnd)
	}

	for _, id := range w.Tracks.sortedTrackIDs() {
		report.Tracks[id] = computeTrackKPI(w.Tracks.Track(id), simEnd)
	}

	inFlight := 0
	arrived := 0
	retrofitted := 0
	rejected := 0
	for id, wagon := range w.Wagons {
		report.Wagons[id] = computeWagonKPI(wagon, simEnd)
		arrived++
		switch wagon.Status {
		case WagonParked:
			retrofitted++
		case WagonRejected:
			rejected++
		default:
			inFlight++
		}
	}

	report.Aggregate = AggregateKPI{
		WagonsArrived:     arrived,
		WagonsRetrofitted: retrofitted,
		WagonsRejected:    rejected,
		WagonsInFlight:    inFlight,
		SimulationMinutes: simEnd,
	}

	return RunResult{
		Events:         w.Log.All(),
		KPIs:           report,
		Aborted:        w.Aborted,
		AbortCause:     w.AbortCause,
		InFlightWagons: inFlight,
	}
}
