package sim

import "github.com/OpenRailAssociation/popupsim/sim/eventlog"

// triggerPickup attempts to form and run a pickup trip from the given
// collection track (spec.md §4.7.2 "Pickup-to-Retrofit Coordinator"). A
// locomotive is requested asynchronously: if none is free, the attempt
// resumes the instant one is returned to the pool, preserving FIFO order
// across competing collection tracks (spec.md §4.3).
func (w *World) triggerPickup(trackID TrackID) {
	store := w.CollectionReady[trackID]
	if store == nil || store.Len() == 0 {
		return
	}
	w.Locos.GetAsync(func(loco *Locomotive) {
		w.runPickupTrip(trackID, loco)
	})
}

// runPickupTrip executes spec.md §4.7.2 steps 1-7 as a chain of
// continuations: drain the batch, find a route, move to the collection
// track, couple, select a retrofit-staging destination, move there,
// decouple, and return the locomotive home. Grounded on the teacher's
// handleRequestArrival -> handleRouteDecision -> handleInstanceStep ->
// handleRequestCompleted event-chaining pipeline (sim/cluster/cluster.go),
// generalized from per-request dispatch to a per-trip wagon batch.
func (w *World) runPickupTrip(trackID TrackID, loco *Locomotive) {
	store := w.CollectionReady[trackID]
	batchSize := w.Scenario.CollectionBatchSize
	wagons := drainBatch(store, batchSize)
	if len(wagons) == 0 {
		w.Locos.Put(loco)
		return
	}

	if loco.TrackID == trackID {
		w.arriveAtCollectionTrack(trackID, wagons, loco)
		return
	}

	route := w.Routes.Find(loco.TrackID, trackID)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(trackID), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(loco.TrackID),
			"destination": string(trackID),
		})
		for _, wg := range wagons {
			store.Put(wg)
		}
		w.Locos.Put(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerPickup(trackID)
		})
		return
	}

	loco.SetStatus(LocoMoving, w.Clock.Now())
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.arriveAtCollectionTrack(trackID, wagons, loco)
	})
}

// arriveAtCollectionTrack couples the locomotive to the batch and, after
// ScrewCouplingTime per wagon, begins the move to a retrofit-staging track
// (spec.md §4.7.2 step 3 "Couple (screw coupling delay * n)").
func (w *World) arriveAtCollectionTrack(sourceTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	loco.TrackID = sourceTrack
	loco.SetStatus(LocoCoupling, w.Clock.Now())
	couplingDelay := w.Scenario.ProcessTimes.ScrewCouplingTime * float64(len(wagons))
	w.Clock.After(couplingDelay, func(clock *Clock) {
		w.selectRetrofitDestination(sourceTrack, wagons, loco)
	})
}

// selectRetrofitDestination picks a RETROFIT-type staging track for the
// batch (spec.md §4.7.2 step 4). If none fits, the batch is rejected
// wagon-by-wagon with NO_RETROFIT_TRACK_FITS and the locomotive returns
// home empty, rather than holding the trip open indefinitely.
func (w *World) selectRetrofitDestination(sourceTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	totalLength := 0.0
	for _, wg := range wagons {
		totalLength += wg.LengthM
	}
	candidates := w.Tracks.TracksOfType(TrackRetrofit)
	destTrack, ok := w.Tracks.Select("retrofit", candidates, totalLength, w.Scenario.TrackSelectionStrategy)
	if !ok {
		for _, wg := range wagons {
			w.Tracks.Remove(sourceTrack, wg.LengthM, w.Clock.Now())
			w.rejectWagon(wg, ReasonNoRetrofitTrack)
		}
		w.returnLocoHome(loco)
		return
	}

	route := w.Routes.Find(sourceTrack, destTrack)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(sourceTrack), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(sourceTrack),
			"destination": string(destTrack),
		})
		// Wagons never left sourceTrack, so occupancy there is untouched;
		// they simply go back into the ready queue to retry.
		store := w.CollectionReady[sourceTrack]
		if store != nil {
			for _, wg := range wagons {
				store.Put(wg)
			}
		}
		w.returnLocoHome(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerPickup(sourceTrack)
		})
		return
	}

	now := w.Clock.Now()
	for _, wg := range wagons {
		Transition(wg, WagonMoving, now)
	}
	loco.SetStatus(LocoMoving, now)
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.arriveAtRetrofitTrack(sourceTrack, destTrack, wagons, loco)
	})
}

// arriveAtRetrofitTrack moves occupancy from the collection track to the
// retrofit-staging track, decouples, transitions the batch to
// ON_RETROFIT_TRACK, and sends the locomotive home (spec.md §4.7.2 steps
// 5-7).
func (w *World) arriveAtRetrofitTrack(sourceTrack, destTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	now := w.Clock.Now()
	for _, wg := range wagons {
		w.Tracks.Remove(sourceTrack, wg.LengthM, now)
		w.Tracks.Add(destTrack, wg.LengthM, now)
		wg.TrackID = destTrack
	}

	loco.TrackID = destTrack
	loco.SetStatus(LocoDecoupling, now)
	decouplingDelay := w.Scenario.ProcessTimes.ScrewDecouplingTime * float64(len(wagons))
	w.Clock.After(decouplingDelay, func(clock *Clock) {
		t := w.Clock.Now()
		for _, wg := range wagons {
			Transition(wg, WagonOnRetrofitTrack, t)
			w.Log.Append(t, eventlog.WagonMoved, string(wg.WagonID), map[string]any{
				"from_track": string(sourceTrack),
				"to_track":   string(destTrack),
			})
			w.RetrofitWaiting[destTrack] = append(w.RetrofitWaiting[destTrack], wg)
			w.retrofitWaitStart[wg.WagonID] = t
		}
		w.returnLocoHome(loco)
		w.triggerWorkshopScan(destTrack)
	})
}

// returnLocoHome schedules the empty-running return trip to the
// locomotive's home track, then releases it back to the pool (spec.md
// §4.7.2 step 7). If no route home exists the locomotive is returned from
// its current track instead — the spec treats this as unreachable given a
// connected topology, but the core must not deadlock if it happens.
func (w *World) returnLocoHome(loco *Locomotive) {
	if loco.TrackID == loco.HomeTrackID {
		loco.SetStatus(LocoParking, w.Clock.Now())
		w.Locos.Put(loco)
		return
	}
	route := w.Routes.Find(loco.TrackID, loco.HomeTrackID)
	if route == nil {
		loco.SetStatus(LocoParking, w.Clock.Now())
		w.Locos.Put(loco)
		return
	}
	loco.SetStatus(LocoMoving, w.Clock.Now())
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		loco.TrackID = loco.HomeTrackID
		loco.SetStatus(LocoParking, w.Clock.Now())
		w.Locos.Put(loco)
	})
}

// drainBatch removes up to max items from store, or all of them when max
// is zero (spec.md §4.7.2/§4.7.4 "default = all waiting").
func drainBatch[T any](store *Store[T], max int) []T {
	if max <= 0 {
		return store.DrainAll()
	}
	out := make([]T, 0, max)
	for len(out) < max {
		item, ok := store.Get()
		if !ok {
			break
		}
		out = append(out, item)
	}
	return out
}
