package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWorkshopKPI_AppliesThroughputAndUtilizationLaws(t *testing.T) {
	// GIVEN a workshop that completed 6 retrofits in 60 minutes with 2
	// stations occupied 30 minutes each (60 occupied-station-minutes total)
	kpi := computeWorkshopKPI("W1", 6, 120, 10, 60, 2, 60)

	// THEN throughput_per_hour = completed*60/sim_minutes = 6*60/60 = 6
	assert.Equal(t, 6.0, kpi.ThroughputPerHour)
	// AND utilization_percent = occupied/(stations*sim_minutes)*100 = 60/120*100 = 50
	assert.Equal(t, 50.0, kpi.UtilizationPercent)
}

func TestComputeWorkshopKPI_ZeroSimMinutesAvoidsDivideByZero(t *testing.T) {
	kpi := computeWorkshopKPI("W1", 0, 0, 0, 0, 2, 0)
	assert.Equal(t, 0.0, kpi.ThroughputPerHour)
	assert.Equal(t, 0.0, kpi.UtilizationPercent)
}

func TestComputeLocomotiveKPI_SumsToSimEnd(t *testing.T) {
	l := &Locomotive{LocomotiveID: "L1"}
	l.SetStatus(LocoParking, 0)
	l.SetStatus(LocoMoving, 10)
	l.SetStatus(LocoParking, 25)

	kpi := computeLocomotiveKPI(l, 40)

	total := 0.0
	for _, minutes := range kpi.MinutesByStatus {
		total += minutes
	}
	assert.Equal(t, 40.0, total)
}

func TestComputeTrackKPI_UtilizationIsTimeWeightedNotPeak(t *testing.T) {
	// GIVEN a track that spiked to PeakOccupancyM=150 but only accumulated
	// 4000 occupancy-meter-minutes over a 100-minute run (200m * 20min)
	track := &Track{TrackID: "T1", LengthM: 200, CurrentOccupancyM: 50, PeakOccupancyM: 150, OccupiedLengthMinutes: 4000, lastChangeTime: 100}
	kpi := computeTrackKPI(track, 100)

	// THEN utilization is occupied-length-minutes/(length*sim_minutes)*100 =
	// 4000/(200*100)*100 = 20, not the peak-based 150/200*100 = 75
	assert.Equal(t, 20.0, kpi.UtilizationPercent)
	assert.Equal(t, 150.0, kpi.PeakOccupancyM)
	assert.Equal(t, 50.0, kpi.FinalOccupancyM)
}

func TestComputeTrackKPI_IntegratesOpenIntervalToSimEnd(t *testing.T) {
	// GIVEN a track occupied by 100m since time 0, still occupied when the
	// run ends at 50 (no closing Remove call ever fires)
	track := &Track{TrackID: "T1", LengthM: 100, CurrentOccupancyM: 100, PeakOccupancyM: 100}
	kpi := computeTrackKPI(track, 50)

	// THEN the open interval is folded in: 100m * 50min / (100m*50min)*100 = 100
	assert.Equal(t, 100.0, kpi.UtilizationPercent)
}

func TestComputeWagonKPI_RejectedWagonUsesRejectionTime(t *testing.T) {
	w := &Wagon{WagonID: "WG1", ArrivalTime: 10, Status: WagonRejected, RejectionTime: 15, RejectionReason: ReasonNoCollectionTrack}
	kpi := computeWagonKPI(w, 100)
	assert.Equal(t, 5.0, kpi.TotalTime)
	assert.Equal(t, ReasonNoCollectionTrack, kpi.RejectionReason)
}

func TestComputeWagonKPI_ParkedWagonSplitsWaitingAndRetrofitTime(t *testing.T) {
	w := &Wagon{
		WagonID: "WG1", ArrivalTime: 0, Status: WagonParked,
		RetrofitStartTime: 10, RetrofitEndTime: 30,
	}
	kpi := computeWagonKPI(w, 100)
	assert.Equal(t, 100.0, kpi.TotalTime)
	assert.Equal(t, 20.0, kpi.RetrofitTime)
	assert.Equal(t, 80.0, kpi.WaitingTime)
}
