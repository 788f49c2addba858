package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// endToEndScenario builds a minimal but complete topology: one collection
// track, one retrofit-staging track, one workshop track/workshop, one
// retrofitted-staging track, one parking track, a single locomotive parked
// on the collection track, and direct routes linking every adjacent stage
// (spec.md §8's "single wagon, happy path" scenario).
func endToEndScenario() *Scenario {
	return &Scenario{
		StartTime:                 0,
		EndTime:                   500,
		TrackSelectionStrategy:    FirstAvailable,
		WorkshopSelectionStrategy: WorkshopFirstAvailable,
		ParkingSelectionStrategy:  WorkshopFirstAvailable,
		Tracks: []*Track{
			{TrackID: "COLLECT", Type: TrackCollection, LengthM: 100},
			{TrackID: "RETROFIT_STAGE", Type: TrackRetrofit, LengthM: 100},
			{TrackID: "WORKSHOP_TRACK", Type: TrackWorkshop, LengthM: 100},
			{TrackID: "RETROFITTED_STAGE", Type: TrackRetrofitted, LengthM: 100},
			{TrackID: "PARK", Type: TrackParking, LengthM: 100},
		},
		Routes: []*Route{
			{RouteID: "R1", SourceTrackID: "COLLECT", DestinationTrackID: "COLLECT", DurationMinutes: 0},
			{RouteID: "R2", SourceTrackID: "COLLECT", DestinationTrackID: "RETROFIT_STAGE", DurationMinutes: 5},
			{RouteID: "R3", SourceTrackID: "RETROFIT_STAGE", DestinationTrackID: "COLLECT", DurationMinutes: 5},
			{RouteID: "R4", SourceTrackID: "RETROFIT_STAGE", DestinationTrackID: "WORKSHOP_TRACK", DurationMinutes: 5},
			{RouteID: "R5", SourceTrackID: "WORKSHOP_TRACK", DestinationTrackID: "RETROFIT_STAGE", DurationMinutes: 5},
			{RouteID: "R6", SourceTrackID: "WORKSHOP_TRACK", DestinationTrackID: "RETROFITTED_STAGE", DurationMinutes: 5},
			{RouteID: "R7", SourceTrackID: "RETROFITTED_STAGE", DestinationTrackID: "WORKSHOP_TRACK", DurationMinutes: 5},
			{RouteID: "R8", SourceTrackID: "RETROFITTED_STAGE", DestinationTrackID: "PARK", DurationMinutes: 5},
			{RouteID: "R9", SourceTrackID: "PARK", DestinationTrackID: "RETROFITTED_STAGE", DurationMinutes: 5},
			// The locomotive returns to its home track between trips, so
			// every pickup leg that starts from home needs a direct route,
			// not just the adjacent-stage hops the wagons themselves travel.
			{RouteID: "R10", SourceTrackID: "COLLECT", DestinationTrackID: "WORKSHOP_TRACK", DurationMinutes: 6},
			{RouteID: "R11", SourceTrackID: "COLLECT", DestinationTrackID: "RETROFITTED_STAGE", DurationMinutes: 7},
		},
		Workshops: []*Workshop{
			{WorkshopID: "WS1", TrackID: "WORKSHOP_TRACK", RetrofitStations: 1},
		},
		Locomotives: []*Locomotive{
			{LocomotiveID: "LOCO1", HomeTrackID: "COLLECT"},
		},
		ProcessTimes: ProcessTimes{
			WagonRetrofitTime:   20,
			TrainToHumpDelay:    1,
			WagonHumpInterval:   1,
			ScrewCouplingTime:   2,
			ScrewDecouplingTime: 2,
			WagonToStationTime:  3,
		},
		Trains: []*TrainArrival{
			{TrainID: "TRAIN1", ArrivalTime: 0, Wagons: []*Wagon{
				{WagonID: "WAGON1", LengthM: 20, NeedsRetrofit: true},
			}},
		},
	}
}

func TestRun_SingleWagonHappyPath_ReachesParked(t *testing.T) {
	scn := endToEndScenario()
	assert.NoError(t, scn.Validate())

	result := Run(scn, 500, nil)

	assert.False(t, result.Aborted)
	assert.Equal(t, 1, result.KPIs.Aggregate.WagonsRetrofitted)
	assert.Equal(t, 0, result.KPIs.Aggregate.WagonsRejected)
	assert.Equal(t, 0, result.KPIs.Aggregate.WagonsInFlight)

	wagonKPI := result.KPIs.Wagons["WAGON1"]
	assert.NotNil(t, wagonKPI)
	assert.Equal(t, 20.0, wagonKPI.RetrofitTime)
}

func TestRun_NoEligibleCollectionTrack_RejectsWagon(t *testing.T) {
	scn := endToEndScenario()
	scn.Tracks[0].LengthM = 5 // smaller than the wagon

	result := Run(scn, 500, nil)

	assert.Equal(t, 1, result.KPIs.Aggregate.WagonsRejected)
	assert.Equal(t, ReasonNoCollectionTrack, result.KPIs.Wagons["WAGON1"].RejectionReason)
}

func TestRun_IneligibleWagon_RejectedByDefault(t *testing.T) {
	scn := endToEndScenario()
	scn.Trains[0].Wagons[0].NeedsRetrofit = false

	result := Run(scn, 500, nil)

	assert.Equal(t, 1, result.KPIs.Aggregate.WagonsRejected)
	assert.Equal(t, ReasonNotNeedingRetrofit, result.KPIs.Wagons["WAGON1"].RejectionReason)
}

func TestRun_IneligibleWagon_RoutesToParkingWhenConfigured(t *testing.T) {
	scn := endToEndScenario()
	scn.Trains[0].Wagons[0].NeedsRetrofit = false
	scn.Eligibility.RouteIneligibleToParking = true

	result := Run(scn, 500, nil)

	assert.Equal(t, 0, result.KPIs.Aggregate.WagonsRejected)
}
