package sim

import "github.com/OpenRailAssociation/popupsim/sim/eventlog"

// triggerParkingDistribution attempts to form and run the final trip
// moving wagons from a RETROFITTED-staging track onto a PARKING track
// (spec.md §4.7.5 "Parking Distribution Coordinator"), the pipeline's last
// stage.
func (w *World) triggerParkingDistribution(stagingTrack TrackID) {
	queue := w.ParkingWaiting[stagingTrack]
	if len(queue) == 0 {
		return
	}
	w.Locos.GetAsync(func(loco *Locomotive) {
		w.runParkingTrip(stagingTrack, loco)
	})
}

func (w *World) runParkingTrip(stagingTrack TrackID, loco *Locomotive) {
	batch := drainParkingBatch(w, stagingTrack, w.Scenario.ParkingBatchSize)
	if len(batch) == 0 {
		w.Locos.Put(loco)
		return
	}

	if loco.TrackID == stagingTrack {
		w.coupleAtStagingTrack(stagingTrack, batch, loco)
		return
	}

	route := w.Routes.Find(loco.TrackID, stagingTrack)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(stagingTrack), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(loco.TrackID),
			"destination": string(stagingTrack),
		})
		w.ParkingWaiting[stagingTrack] = append(batch, w.ParkingWaiting[stagingTrack]...)
		w.Locos.Put(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerParkingDistribution(stagingTrack)
		})
		return
	}

	loco.SetStatus(LocoMoving, w.Clock.Now())
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.coupleAtStagingTrack(stagingTrack, batch, loco)
	})
}

func (w *World) coupleAtStagingTrack(stagingTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	loco.TrackID = stagingTrack
	loco.SetStatus(LocoCoupling, w.Clock.Now())
	couplingDelay := w.Scenario.ProcessTimes.DACCouplingTime * float64(len(wagons))
	w.Clock.After(couplingDelay, func(clock *Clock) {
		w.selectParkingDestination(stagingTrack, wagons, loco)
	})
}

// selectParkingDestination picks a PARKING track for the batch (spec.md
// §4.7.5 step 2, using ParkingSelectionStrategy per SPEC_FULL.md). No
// fitting destination rejects the batch with NO_PARKING_TRACK_FITS.
func (w *World) selectParkingDestination(stagingTrack TrackID, wagons []*Wagon, loco *Locomotive) {
	totalLength := 0.0
	for _, wg := range wagons {
		totalLength += wg.LengthM
	}
	candidates := w.Tracks.TracksOfType(TrackParking)
	destTrack, ok := w.Tracks.Select("parking", candidates, totalLength, TrackSelectionStrategy(w.Scenario.ParkingSelectionStrategy))
	if !ok {
		for _, wg := range wagons {
			w.Tracks.Remove(stagingTrack, wg.LengthM, w.Clock.Now())
			w.rejectWagon(wg, ReasonNoParkingTrack)
		}
		w.returnLocoHome(loco)
		return
	}

	route := w.Routes.Find(stagingTrack, destTrack)
	if route == nil {
		w.Log.AppendError(w.Clock.Now(), eventlog.WagonMoved, string(stagingTrack), map[string]any{
			"reason":      "NO_ROUTE",
			"source":      string(stagingTrack),
			"destination": string(destTrack),
		})
		// Wagons never left stagingTrack, so occupancy there is untouched.
		w.ParkingWaiting[stagingTrack] = append(wagons, w.ParkingWaiting[stagingTrack]...)
		w.returnLocoHome(loco)
		w.Clock.After(retryDelayMinutes, func(clock *Clock) {
			w.triggerParkingDistribution(stagingTrack)
		})
		return
	}

	loco.SetStatus(LocoMoving, w.Clock.Now())
	w.Clock.After(route.DurationMinutes, func(clock *Clock) {
		w.arriveAtParkingTrack(stagingTrack, destTrack, wagons, loco)
	})
}

// arriveAtParkingTrack moves occupancy onto the parking track, decouples,
// and transitions every wagon to the terminal PARKED status (spec.md
// §4.7.5 steps 3-5, §4.6 "PARKED is terminal").
func (w *World) arriveAtParkingTrack(sourceTrack, destTrack TrackID, wagons []*Wagon, loco *Locomotive) {
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
			Transition(wg, WagonParked, t)
			w.Log.Append(t, eventlog.WagonParked, string(wg.WagonID), map[string]any{
				"track_id": string(destTrack),
			})
		}
		w.returnLocoHome(loco)
	})
}

// drainParkingBatch removes up to max wagons from stagingTrack's
// ParkingWaiting queue (all of them when max is zero), mirroring
// drainBatch for the slice-backed (rather than Store-backed) parking queue.
func drainParkingBatch(w *World, stagingTrack TrackID, max int) []*Wagon {
	queue := w.ParkingWaiting[stagingTrack]
	if max <= 0 || max >= len(queue) {
		w.ParkingWaiting[stagingTrack] = nil
		return queue
	}
	batch := queue[:max]
	w.ParkingWaiting[stagingTrack] = queue[max:]
	return batch
}
