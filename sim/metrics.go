package sim

import "fmt"

// WorkshopKPI holds the per-workshop KPIs of spec.md §4.8 and §8's KPI laws.
type WorkshopKPI struct {
	WorkshopID         WorkshopID
	CompletedRetrofits int
	TotalRetrofitTime  float64
	TotalWaitingTime   float64
	ThroughputPerHour  float64
	UtilizationPercent float64
}

// LocomotiveKPI holds the per-locomotive utilization breakdown of spec.md
// §4.8 "Per locomotive".
type LocomotiveKPI struct {
	LocomotiveID LocomotiveID
	MinutesByStatus map[LocomotiveStatus]float64
	PercentByStatus map[LocomotiveStatus]float64
}

// TrackKPI holds the per-track occupancy KPIs of spec.md §4.8 "Per track".
type TrackKPI struct {
	TrackID            TrackID
	FinalOccupancyM    float64
	PeakOccupancyM     float64
	UtilizationPercent float64
}

// WagonKPI holds the per-wagon KPIs of spec.md §4.8 "Per wagon".
type WagonKPI struct {
	WagonID         WagonID
	TotalTime       float64
	WaitingTime     float64
	RetrofitTime    float64
	RejectionReason RejectionReason
}

// AggregateKPI holds the whole-run KPIs of spec.md §4.8 "Aggregate".
type AggregateKPI struct {
	WagonsArrived    int
	WagonsRetrofitted int
	WagonsRejected   int
	WagonsInFlight   int
	SimulationMinutes float64
}

// KPIReport bundles every KPI computed at end-of-run (spec.md §4.8 "KPIs
// computed at end-of-run").
type KPIReport struct {
	Workshops   map[WorkshopID]*WorkshopKPI
	Locomotives map[LocomotiveID]*LocomotiveKPI
	Tracks      map[TrackID]*TrackKPI
	Wagons      map[WagonID]*WagonKPI
	Aggregate   AggregateKPI
}

// computeWorkshopKPI applies the spec.md §8 KPI laws:
//
//	throughput_per_hour = completed * 60 / sim_minutes
//	utilization_percent = occupied_station_minutes / (stations * sim_minutes) * 100
func computeWorkshopKPI(id WorkshopID, completed int, totalRetrofitTime, totalWaitingTime float64, occupiedStationMinutes float64, stations int, simMinutes float64) *WorkshopKPI {
	k := &WorkshopKPI{
		WorkshopID:        id,
		CompletedRetrofits: completed,
		TotalRetrofitTime: totalRetrofitTime,
		TotalWaitingTime:  totalWaitingTime,
	}
	if simMinutes > 0 {
		k.ThroughputPerHour = float64(completed) * 60 / simMinutes
		if stations > 0 {
			k.UtilizationPercent = occupiedStationMinutes / (float64(stations) * simMinutes) * 100
		}
	}
	return k
}

// computeLocomotiveKPI converts a StatusHistory into per-status minutes and
// percentages, closing the final open interval at simEnd (spec.md §8 "Sum
// of per-status minutes for any locomotive equals sim_minutes").
func computeLocomotiveKPI(l *Locomotive, simEnd float64) *LocomotiveKPI {
	k := &LocomotiveKPI{
		LocomotiveID:    l.LocomotiveID,
		MinutesByStatus: make(map[LocomotiveStatus]float64),
		PercentByStatus: make(map[LocomotiveStatus]float64),
	}
	for i, change := range l.StatusHistory {
		end := simEnd
		if i+1 < len(l.StatusHistory) {
			end = l.StatusHistory[i+1].At
		}
		if end < change.At {
			end = change.At
		}
		k.MinutesByStatus[change.Status] += end - change.At
	}
	if simEnd > 0 {
		for status, minutes := range k.MinutesByStatus {
			k.PercentByStatus[status] = minutes / simEnd * 100
		}
	}
	return k
}

// computeTrackKPI applies the spec.md §8 "Per track" KPI law:
//
//	utilization_percent = occupied_length_minutes / (length_m * sim_minutes) * 100
//
// the same time-weighted shape computeWorkshopKPI applies to stations.
// integrateOccupancy folds in the final open interval up to simMinutes
// before reading OccupiedLengthMinutes, since a track that is still
// occupied when the run ends never saw a closing Add/Remove call.
func computeTrackKPI(t *Track, simMinutes float64) *TrackKPI {
	integrateOccupancy(t, simMinutes)
	k := &TrackKPI{
		TrackID:         t.TrackID,
		FinalOccupancyM: t.CurrentOccupancyM,
		PeakOccupancyM:  t.PeakOccupancyM,
	}
	if t.LengthM > 0 && simMinutes > 0 {
		k.UtilizationPercent = t.OccupiedLengthMinutes / (t.LengthM * simMinutes) * 100
	}
	return k
}

func computeWagonKPI(w *Wagon, simEnd float64) *WagonKPI {
	k := &WagonKPI{WagonID: w.WagonID, RejectionReason: w.RejectionReason}
	switch w.Status {
	case WagonRejected:
		k.TotalTime = w.RejectionTime - w.ArrivalTime
	case WagonParked:
		k.TotalTime = simEnd - w.ArrivalTime
	default:
		k.TotalTime = simEnd - w.ArrivalTime
	}
	if w.RetrofitEndTime > 0 {
		k.RetrofitTime = w.RetrofitEndTime - w.RetrofitStartTime
	}
	k.WaitingTime = k.TotalTime - k.RetrofitTime
	if k.WaitingTime < 0 {
		k.WaitingTime = 0
	}
	return k
}

// Print renders a short human-readable summary, matching the teacher's
// Metrics.Print convention (sim/metrics.go) of a banner plus aggregate
// figures.
func (r *KPIReport) Print() {
	fmt.Println("=== PopUpSim KPI Report ===")
	fmt.Printf("Wagons arrived     : %d\n", r.Aggregate.WagonsArrived)
	fmt.Printf("Wagons retrofitted : %d\n", r.Aggregate.WagonsRetrofitted)
	fmt.Printf("Wagons rejected    : %d\n", r.Aggregate.WagonsRejected)
	fmt.Printf("Wagons in-flight   : %d\n", r.Aggregate.WagonsInFlight)
	fmt.Printf("Simulation minutes : %.2f\n", r.Aggregate.SimulationMinutes)
	for _, w := range r.Workshops {
		fmt.Printf("Workshop %-12s completed=%-4d throughput/h=%.2f utilization=%.1f%%\n",
			w.WorkshopID, w.CompletedRetrofits, w.ThroughputPerHour, w.UtilizationPercent)
	}
}
