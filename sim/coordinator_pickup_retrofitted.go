package sim

import "github.com/OpenRailAssociation/popupsim/sim/eventlog"

// triggerRetrofittedPickup attempts to form and run a trip moving
// RETROFITTED wagons off a workshop track onto a RETROFITTED-type staging
// track (spec.md §4.7.4 "Pickup-Retrofitted Coordinator"). Structurally the
// mirror of triggerPickup/runPickupTrip, one stage further down the
// pipeline.
func (w *World) triggerRetrofittedPickup(workshopTrack TrackID) {
	store := w.RetrofittedReady[workshopTrack]
	if store == nil || store.Len() == 0 {
		return
	}
	w.Locos.GetAsync(func(loco *Locomotive) {
		w.runRetrofittedPickupTrip(workshopTrack, loco)
	})
}

func (w *World) runRetrofittedPickupTrip(workshopTrack TrackID, loco *Locomotive) {
	store := w.RetrofittedReady[workshopTrack]
	batchSize := w.Scenario.RetrofittedBatchSize
	wagons := drainBatch(store, batchSize)
	if len(wagons) == 0 {
		w.Locos.Put(loco)
		return
	}

	if loco.TrackID == workshopTrack {
		w.coupleAtWorkshopTrack(workshopTrack, wagons, loco)
		return
	}

	route := w.Routes.Find(loco.TrackID, workshopTrack)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(workshopTrack), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(loco.TrackID),
			"destination": string(workshopTrack),
		})
		for _, wg := range wagons {
			store.Put(wg)
		}
		w.Locos.Put(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerRetrofittedPickup(workshopTrack)
		})
		return
	}

	loco.SetStatus(LocoMoving, w.Clock.Now())
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.coupleAtWorkshopTrack(workshopTrack, wagons, loco)
	})
}

func (w *World) coupleAtWorkshopTrack(workshopTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	loco.TrackID = workshopTrack
	loco.SetStatus(LocoCoupling, w.Clock.Now())
	couplingDelay := w.Scenario.ProcessTimes.DACCouplingTime * float64(len(wagons))
	w.Clock.After(couplingDelay, func(clock *Clock) {
		w.selectRetrofittedDestination(workshopTrack, wagons, loco)
	})
}

// selectRetrofittedDestination picks a RETROFITTED-type staging track for
// the batch (spec.md §4.7.4 step 4). No fitting destination rejects the
// whole batch with NO_PARKING_TRACK_FITS — spec.md §4 does not name a
// distinct reason for this leg, and a retrofitted-staging track plays the
// same topological role parking does for the upstream collection leg.
func (w *World) selectRetrofittedDestination(workshopTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	totalLength := 0.0
	for _, wg := range wagons {
		totalLength += wg.LengthM
	}
	candidates := w.Tracks.TracksOfType(TrackRetrofitted)
	destTrack, ok := w.Tracks.Select("retrofitted", candidates, totalLength, w.Scenario.TrackSelectionStrategy)
	if !ok {
		for _, wg := range wagons {
			w.Tracks.Remove(workshopTrack, wg.LengthM, w.Clock.Now())
			w.rejectWagon(wg, ReasonNoParkingTrack)
		}
		w.returnLocoHome(loco)
		return
	}

	route := w.Routes.Find(workshopTrack, destTrack)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(workshopTrack), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(workshopTrack),
			"destination": string(destTrack),
		})
		// Wagons never left workshopTrack, so occupancy there is untouched.
		store := w.RetrofittedReady[workshopTrack]
		if store != nil {
			for _, wg := range wagons {
				store.Put(wg)
			}
		}
		w.returnLocoHome(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerRetrofittedPickup(workshopTrack)
		})
		return
	}

	now := w.Clock.Now()
	for _, wg := range wagons {
		Transition(wg, WagonMoving, now)
	}
	loco.SetStatus(LocoMoving, now)
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.arriveAtRetrofittedTrack(workshopTrack, destTrack, wagons, loco)
	})
}

// arriveAtRetrofittedTrack moves occupancy onto the retrofitted-staging
// track, decouples, and hands the batch to the Parking Distribution
// Coordinator (spec.md §4.7.4 steps 5-7, §4.7.5). Wagons remain in the
// MOVING status set at the start of this leg — spec.md §4.6 has no distinct
// "waiting for parking pickup" state, so ParkingWaiting membership alone
// tracks this wait, mirroring SPEC_FULL.md Open Question Decision 2's
// treatment of ON_RETROFIT_TRACK.
func (w *World) arriveAtRetrofittedTrack(sourceTrack, destTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	now := w.Clock.Now()
	for _, wg := range wagons {
		w.Tracks.Remove(sourceTrack, wg.LengthM, now)
		w.Tracks.Add(destTrack, wg.LengthM, now)
		wg.TrackID = destTrack
	}

	loco.TrackID = destTrack
	loco.SetStatus(LocoDecoupling, now)
	decouplingDelay := w.Scenario.ProcessTimes.DACDecouplingTime * float64(len(wagons))
	w.Clock.After(decouplingDelay, func(clock *Clock) {
		t := w.Clock.Now()
		for _, wg := range wagons {
			w.Log.Append(t, eventlog.WagonMoved, string(wg.WagonID), map[string]any{
				"from_track": string(sourceTrack),
				"to_track":   string(destTrack),
			})
			w.ParkingWaiting[destTrack] = append(w.ParkingWaiting[destTrack], wg)
		}
		w.returnLocoHome(loco)
		w.triggerParkingDistribution(destTrack)
	})
}
