package sim

import "github.com/OpenRailAssociation/popupsim/sim/eventlog"

// triggerWorkshopScan attempts to start the next wagon waiting on sourceTrack
// into a workshop station (spec.md §4.7.3 "Workshop/Station Coordinator").
// Only the head of the FIFO queue is considered; if no workshop currently has
// a free station, the wagon is left in place and retried the next time any
// station is released (scanAllRetrofitTracks).
func (w *World) triggerWorkshopScan(sourceTrack TrackID) {
	queue := w.RetrofitWaiting[sourceTrack]
	if len(queue) == 0 {
		return
	}
	wagon := queue[0]

	workshopID, ok := w.Workshops.Select(w.Workshops.All(), w.Scenario.WorkshopSelectionStrategy)
	if !ok {
		return
	}
	w.RetrofitWaiting[sourceTrack] = queue[1:]
	w.Workshops.Occupy(workshopID, 1)
	workshop := w.Workshops.Workshop(workshopID)

	now := w.Clock.Now()
	Transition(wagon, WagonMovingToStation, now)
	w.Tracks.Remove(sourceTrack, wagon.LengthM, now)

	w.Clock.After(w.Scenario.ProcessTimes.WagonToStationTime, func(clock *Clock) {
		w.startRetrofit(wagon, workshop)
	})
}

// startRetrofit occupies the workshop track and runs the fixed
// WagonRetrofitTime (spec.md §4.7.3 steps 2-3), recording occupancy start
// for the per-workshop utilization KPI (spec.md §4.8 "occupied_station_minutes")
// and tallying the time the wagon spent queued on the retrofit track into
// the workshop's total_waiting_time (spec.md §4.8).
func (w *World) startRetrofit(wagon *Wagon, workshop *Workshop) {
	now := w.Clock.Now()
	w.Tracks.Add(workshop.TrackID, wagon.LengthM, now)
	wagon.TrackID = workshop.TrackID
	Transition(wagon, WagonRetrofitting, now)
	w.Log.Append(now, eventlog.RetrofitStarted, string(wagon.WagonID), map[string]any{
		"workshop_id": string(workshop.WorkshopID),
	})

	if waitStart, ok := w.retrofitWaitStart[wagon.WagonID]; ok {
		w.workshopWaitTime[workshop.WorkshopID] += now - waitStart
		delete(w.retrofitWaitStart, wagon.WagonID)
	}

	w.workshopOccupyStart[wagon.WagonID] = now
	w.workshopOf[wagon.WagonID] = workshop.WorkshopID

	w.Clock.After(w.Scenario.ProcessTimes.WagonRetrofitTime, func(clock *Clock) {
		w.completeRetrofit(wagon, workshop)
	})
}

// completeRetrofit releases the station, tallies KPI bookkeeping, moves the
// wagon into RETROFITTED, and enqueues it for the Pickup-Retrofitted
// Coordinator (spec.md §4.7.3 steps 4, §4.7.4 step 1). Freeing the station
// then re-scans every retrofit track so the next-waiting wagon anywhere can
// claim it (spec.md §4.5 "stations are a shared, fungible pool").
func (w *World) completeRetrofit(wagon *Wagon, workshop *Workshop) {
	now := w.Clock.Now()
	Transition(wagon, WagonRetrofitted, now)
	w.Log.Append(now, eventlog.RetrofitCompleted, string(wagon.WagonID), map[string]any{
		"workshop_id": string(workshop.WorkshopID),
	})

	start := w.workshopOccupyStart[wagon.WagonID]
	w.workshopOccupiedMin[workshop.WorkshopID] += now - start
	w.workshopCompleted[workshop.WorkshopID]++
	w.workshopRetrofitTime[workshop.WorkshopID] += wagon.RetrofitEndTime - wagon.RetrofitStartTime
	delete(w.workshopOccupyStart, wagon.WagonID)
	delete(w.workshopOf, wagon.WagonID)

	w.Workshops.Release(workshop.WorkshopID, 1)

	store := w.RetrofittedReady[workshop.TrackID]
	if store == nil {
		abort("completeRetrofit: workshop track %s has no ready store", workshop.TrackID)
	}
	store.Put(wagon)

	w.scanAllRetrofitTracks()
	w.triggerRetrofittedPickup(workshop.TrackID)
}

// scanAllRetrofitTracks re-attempts triggerWorkshopScan on every RETROFIT
// track, used whenever a station frees so that waiting wagons on any track
// get a fair chance at the newly-available station.
func (w *World) scanAllRetrofitTracks() {
	for _, id := range w.Tracks.TracksOfType(TrackRetrofit) {
		w.triggerWorkshopScan(id)
	}
}
