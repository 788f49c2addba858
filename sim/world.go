package sim

import "github.com/OpenRailAssociation/popupsim/sim/eventlog"

// retryDelayMinutes is how long a coordinator waits before retrying a trip
// that failed for a recoverable reason (spec.md §7 "NO_ROUTE... the
// affected wagon batch is left in place and will be retried on the next
// iteration"). The spec leaves the retry cadence unspecified; five minutes
// is a pragmatic default that keeps retries from busy-looping the clock.
const retryDelayMinutes = 5.0

// World owns every shared object the five coordinators operate on: the
// clock, the capacity managers, the locomotive pool, route lookup, and the
// per-track staging stores between pipeline stages (spec.md §2 "Data
// flow"). Grounded on the teacher's ClusterSimulator (sim/cluster/simulator.go
// pre-refactor shape): one struct holding the clock plus every manager,
// constructed once by the orchestrator and never duplicated.
type World struct {
	Clock     *Clock
	Scenario  *Scenario
	Log       *eventlog.Log
	Tracks    *TrackCapacityManager
	Workshops *WorkshopCapacityManager
	Locos     *LocomotivePool
	Routes    *RouteFinder
	RNG       *PartitionedRNG
	Tracer    Tracer

	Wagons map[WagonID]*Wagon

	// CollectionReady holds wagons SELECTED and waiting on each collection
	// track for the Pickup-to-Retrofit Coordinator (spec.md §4.7.1 step 3,
	// §4.7.2 step 1).
	CollectionReady map[TrackID]*Store[*Wagon]

	// RetrofitWaiting holds wagons ON_RETROFIT_TRACK per retrofit track,
	// scanned by the Workshop Coordinator (spec.md §4.7.3 step 1).
	RetrofitWaiting map[TrackID][]*Wagon

	// RetrofittedReady holds wagons RETROFITTED per workshop track for the
	// Pickup-Retrofitted Coordinator (spec.md §4.7.3 step 4, §4.7.4 step 1).
	RetrofittedReady map[TrackID]*Store[*Wagon]

	// ParkingWaiting holds wagons waiting on each retrofitted-staging track
	// for the Parking Distribution Coordinator (spec.md §4.7.5).
	ParkingWaiting map[TrackID][]*Wagon

	// workshopOccupyStart tracks when each wagon currently RETROFITTING
	// started occupying its station, keyed by wagon id, for the
	// utilization KPI (spec.md §4.8 "utilization% = occupied-station-
	// minutes / (stations * sim_minutes)").
	workshopOccupyStart map[WagonID]float64
	workshopOf          map[WagonID]WorkshopID
	workshopOccupiedMin map[WorkshopID]float64
	workshopCompleted   map[WorkshopID]int
	workshopRetrofitTime map[WorkshopID]float64
	workshopWaitTime     map[WorkshopID]float64

	// retrofitWaitStart tracks when each wagon entered ON_RETROFIT_TRACK,
	// keyed by wagon id, so startRetrofit can tally the time it spent
	// queued for a station into workshopWaitTime (spec.md §4.8
	// "total_waiting_time").
	retrofitWaitStart map[WagonID]float64

	Aborted    bool
	AbortCause string
}

// NewWorld constructs a World from a validated Scenario. Callers must call
// Scenario.Validate first (spec.md §6.1 "invalid scenarios cause startup
// failure before simulation begins"); NewWorld does not re-validate.
func NewWorld(scn *Scenario, tracer Tracer) *World {
	clock := NewClock(scn.EndTime)
	rng := NewPartitionedRNG(NewSimulationKey(scn.RandomSeed))
	if tracer == nil {
		tracer = NoopTracer{}
	}

	w := &World{
		Clock:                clock,
		Scenario:             scn,
		Log:                  eventlog.New(),
		Tracks:               NewTrackCapacityManager(scn.Tracks, rng, scn.AllowTrackOverflow),
		Workshops:            NewWorkshopCapacityManager(scn.Workshops),
		Locos:                NewLocomotivePool(scn.Locomotives, scn.StartTime),
		Routes:               NewRouteFinder(scn.Routes),
		RNG:                  rng,
		Tracer:               tracer,
		Wagons:               make(map[WagonID]*Wagon),
		CollectionReady:      make(map[TrackID]*Store[*Wagon]),
		RetrofitWaiting:      make(map[TrackID][]*Wagon),
		RetrofittedReady:     make(map[TrackID]*Store[*Wagon]),
		ParkingWaiting:       make(map[TrackID][]*Wagon),
		workshopOccupyStart:  make(map[WagonID]float64),
		workshopOf:           make(map[WagonID]WorkshopID),
		workshopOccupiedMin:  make(map[WorkshopID]float64),
		workshopCompleted:    make(map[WorkshopID]int),
		workshopRetrofitTime: make(map[WorkshopID]float64),
		workshopWaitTime:     make(map[WorkshopID]float64),
		retrofitWaitStart:    make(map[WagonID]float64),
	}

	for _, id := range w.Tracks.TracksOfType(TrackCollection) {
		w.CollectionReady[id] = NewStore[*Wagon]()
	}
	for _, t := range scn.Tracks {
		if t.Type == TrackWorkshop {
			w.RetrofittedReady[t.TrackID] = NewStore[*Wagon]()
		}
	}
	for _, train := range scn.Trains {
		for _, wagon := range train.Wagons {
			wagon.Status = WagonArriving
			w.Wagons[wagon.WagonID] = wagon
		}
	}

	return w
}

// abortRun marks the World as fatally aborted (spec.md §7 "Invariant
// violations... core stops the run and marks final_state.aborted=true").
// Called from the top-level recover in Run when a coordinator's continuation
// panics with an *AbortError.
func (w *World) abortRun(cause string) {
	w.Aborted = true
	w.AbortCause = cause
}
