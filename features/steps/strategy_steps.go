package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/OpenRailAssociation/popupsim/sim"
)

// strategyContext exercises TrackCapacityManager.Select directly, without
// running a full simulation, for spec.md §8's "Strategy determinism"
// scenario.
type strategyContext struct {
	tracks     []*sim.Track
	occupiedBy map[sim.TrackID]float64
	wagonLen   float64
	chosen     sim.TrackID
	rerun      sim.TrackID
}

func (sc *strategyContext) reset() {
	sc.tracks = nil
	sc.occupiedBy = map[sim.TrackID]float64{}
	sc.wagonLen = 0
	sc.chosen = ""
	sc.rerun = ""
}

func (sc *strategyContext) threeParkingTracksOccupied(a, b, c int) error {
	sc.tracks = []*sim.Track{
		{TrackID: "P1", Type: sim.TrackParking, LengthM: 100, CurrentOccupancyM: float64(a)},
		{TrackID: "P2", Type: sim.TrackParking, LengthM: 100, CurrentOccupancyM: float64(b)},
		{TrackID: "P3", Type: sim.TrackParking, LengthM: 100, CurrentOccupancyM: float64(c)},
	}
	return nil
}

func (sc *strategyContext) wagonThatFitsEveryTrack() error {
	sc.wagonLen = 10
	return nil
}

func (sc *strategyContext) selectWithStrategy(strategy string) error {
	mgr := sim.NewTrackCapacityManager(sc.tracks, sim.NewPartitionedRNG(sim.NewSimulationKey(42)), false)
	id, ok := mgr.Select("parking", mgr.TracksOfType(sim.TrackParking), sc.wagonLen, sim.TrackSelectionStrategy(strategy))
	if !ok {
		return fmt.Errorf("expected a track to be selected")
	}
	sc.chosen = id
	return nil
}

func (sc *strategyContext) selectTwiceWithSameSeed(strategy string) error {
	first := sim.NewTrackCapacityManager(sc.tracks, sim.NewPartitionedRNG(sim.NewSimulationKey(42)), false)
	second := sim.NewTrackCapacityManager(sc.tracks, sim.NewPartitionedRNG(sim.NewSimulationKey(42)), false)

	id1, ok1 := first.Select("parking", first.TracksOfType(sim.TrackParking), sc.wagonLen, sim.TrackSelectionStrategy(strategy))
	id2, ok2 := second.Select("parking", second.TracksOfType(sim.TrackParking), sc.wagonLen, sim.TrackSelectionStrategy(strategy))
	if !ok1 || !ok2 {
		return fmt.Errorf("expected both selections to succeed")
	}
	sc.chosen = id1
	sc.rerun = id2
	return nil
}

func (sc *strategyContext) chosenShouldBeOccupiedAt(percent int) error {
	t := findTrack(sc.tracks, sc.chosen)
	if t == nil {
		return fmt.Errorf("no track was chosen")
	}
	if int(t.CurrentOccupancyM) != percent {
		return fmt.Errorf("expected chosen track occupied at %d, got %v (%s)", percent, t.CurrentOccupancyM, t.TrackID)
	}
	return nil
}

func (sc *strategyContext) chosenShouldBeFirstDeclared() error {
	if sc.chosen != sc.tracks[0].TrackID {
		return fmt.Errorf("expected first declared track %s, got %s", sc.tracks[0].TrackID, sc.chosen)
	}
	return nil
}

func (sc *strategyContext) bothSelectionsShouldMatch() error {
	if sc.chosen != sc.rerun {
		return fmt.Errorf("expected stable selection across reruns, got %s and %s", sc.chosen, sc.rerun)
	}
	return nil
}

func findTrack(tracks []*sim.Track, id sim.TrackID) *sim.Track {
	for _, t := range tracks {
		if t.TrackID == id {
			return t
		}
	}
	return nil
}

// InitializeStrategyScenario registers the step definitions for
// strategy_determinism.feature.
func InitializeStrategyScenario(ctx *godog.ScenarioContext) {
	sc := &strategyContext{}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return c, nil
	})

	ctx.Step(`^three parking tracks pre-occupied at (\d+), (\d+) and (\d+) percent$`, sc.threeParkingTracksOccupied)
	ctx.Step(`^a wagon that fits every parking track$`, sc.wagonThatFitsEveryTrack)
	ctx.Step(`^the parking track is selected with strategy "([^"]*)"$`, sc.selectWithStrategy)
	ctx.Step(`^the parking track is selected twice with strategy "([^"]*)" and the same seed$`, sc.selectTwiceWithSameSeed)
	ctx.Step(`^the chosen track should be the one pre-occupied at (\d+) percent$`, sc.chosenShouldBeOccupiedAt)
	ctx.Step(`^the chosen track should be the first declared track$`, sc.chosenShouldBeFirstDeclared)
	ctx.Step(`^both selections should choose the same track$`, sc.bothSelectionsShouldMatch)
}
