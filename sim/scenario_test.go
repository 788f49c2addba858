package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validScenario() *Scenario {
	return &Scenario{
		StartTime:                 0,
		EndTime:                   100,
		TrackSelectionStrategy:    LeastOccupied,
		WorkshopSelectionStrategy: WorkshopLeastOccupied,
		ParkingSelectionStrategy:  WorkshopLeastOccupied,
		Tracks: []*Track{
			{TrackID: "C1", Type: TrackCollection, LengthM: 100},
			{TrackID: "W1T", Type: TrackWorkshop, LengthM: 50},
		},
		Workshops: []*Workshop{
			{WorkshopID: "W1", TrackID: "W1T", RetrofitStations: 1},
		},
		Locomotives: []*Locomotive{
			{LocomotiveID: "L1", HomeTrackID: "C1"},
		},
		Trains: []*TrainArrival{
			{TrainID: "T1", ArrivalTime: 10, Wagons: []*Wagon{
				{WagonID: "WG1", LengthM: 10, NeedsRetrofit: true},
			}},
		},
	}
}

func TestScenario_Validate_AcceptsWellFormedScenario(t *testing.T) {
	assert.NoError(t, validScenario().Validate())
}

func TestScenario_Validate_RejectsEndBeforeStart(t *testing.T) {
	s := validScenario()
	s.EndTime = -1
	assert.Error(t, s.Validate())
}

func TestScenario_Validate_RejectsDuplicateTrackID(t *testing.T) {
	s := validScenario()
	s.Tracks = append(s.Tracks, &Track{TrackID: "C1", Type: TrackCollection, LengthM: 10})
	assert.Error(t, s.Validate())
}

func TestScenario_Validate_RejectsWorkshopOnWrongTrackType(t *testing.T) {
	s := validScenario()
	s.Workshops[0].TrackID = "C1"
	assert.Error(t, s.Validate())
}

func TestScenario_Validate_RejectsLocomotiveUnknownHomeTrack(t *testing.T) {
	s := validScenario()
	s.Locomotives[0].HomeTrackID = "NOPE"
	assert.Error(t, s.Validate())
}

func TestScenario_Validate_RejectsTrainArrivalOutsideWindow(t *testing.T) {
	s := validScenario()
	s.Trains[0].ArrivalTime = 1000
	assert.Error(t, s.Validate())
}

func TestScenario_Validate_RejectsUnknownStrategy(t *testing.T) {
	s := validScenario()
	s.TrackSelectionStrategy = "BOGUS"
	assert.Error(t, s.Validate())
}
