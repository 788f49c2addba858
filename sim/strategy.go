package sim

import (
	"fmt"
	"math/rand"
)

// TrackSelectionStrategy enumerates the track-choice policies of spec.md
// §6.4. Grounded on the teacher's sim/routing.go RoutingPolicy family
// (RoundRobin, LeastLoaded, WeightedScoring): PopUpSim's strategies pick a
// track instead of an inference instance, but the tagged-enum-plus-pure-
// function dispatch shape (spec.md §9 "Strategy dispatch") is the same.
type TrackSelectionStrategy string

const (
	LeastOccupied  TrackSelectionStrategy = "LEAST_OCCUPIED"
	FirstAvailable TrackSelectionStrategy = "FIRST_AVAILABLE"
	RoundRobin     TrackSelectionStrategy = "ROUND_ROBIN"
	Random         TrackSelectionStrategy = "RANDOM"
)

// IsValidTrackSelectionStrategy reports whether name is a recognized track
// selection strategy (spec.md §6.4).
func IsValidTrackSelectionStrategy(name string) bool {
	switch TrackSelectionStrategy(name) {
	case LeastOccupied, FirstAvailable, RoundRobin, Random:
		return true
	default:
		return false
	}
}

// WorkshopSelectionStrategy enumerates the workshop/parking-choice policies
// of spec.md §6.4. These two ambient concerns (table lookup, available
// dispatch) share a smaller enum: only LEAST_OCCUPIED and FIRST_AVAILABLE
// are defined for workshops and parking (spec.md §4.5 "Selection tie-break
// for workshops").
type WorkshopSelectionStrategy string

const (
	WorkshopLeastOccupied  WorkshopSelectionStrategy = "LEAST_OCCUPIED"
	WorkshopFirstAvailable WorkshopSelectionStrategy = "FIRST_AVAILABLE"
)

// IsValidWorkshopSelectionStrategy reports whether name is a recognized
// workshop or parking selection strategy.
func IsValidWorkshopSelectionStrategy(name string) bool {
	switch WorkshopSelectionStrategy(name) {
	case WorkshopLeastOccupied, WorkshopFirstAvailable:
		return true
	default:
		return false
	}
}

// roundRobinCursors holds the per-scope ROUND_ROBIN index (spec.md §4.4
// "advance an index across candidates (per strategy scope)"). Keyed by an
// arbitrary caller-chosen scope name (e.g. "collection", "parking") so that
// collection-track round robin and parking-track round robin advance
// independently.
type roundRobinCursors struct {
	cursors map[string]int
}

func newRoundRobinCursors() *roundRobinCursors {
	return &roundRobinCursors{cursors: make(map[string]int)}
}

func (c *roundRobinCursors) next(scope string, n int) int {
	idx := c.cursors[scope] % n
	c.cursors[scope] = c.cursors[scope] + 1
	return idx
}

// trackCandidate is the minimal view TrackCapacityManager.Select needs of a
// candidate track: enough to rank it, without exposing mutable Track state
// to the selection function itself (spec.md §9 "pure selection function").
type trackCandidate struct {
	TrackID  TrackID
	Occupied float64
	Capacity float64
}

// fits reports whether length more can be added without exceeding capacity.
func (t trackCandidate) fits(length float64) bool {
	return t.Occupied+length <= t.Capacity
}

// selectTrack is the pure selection function backing
// TrackCapacityManager.Select (spec.md §4.4). candidates must be supplied in
// "declared order" for FIRST_AVAILABLE and ROUND_ROBIN to be meaningful.
// Returns ("", false) when no candidate fits.
func selectTrack(
	strategy TrackSelectionStrategy,
	scope string,
	candidates []trackCandidate,
	length float64,
	cursors *roundRobinCursors,
	rng *rand.Rand,
) (TrackID, bool) {
	fitting := make([]trackCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.fits(length) {
			fitting = append(fitting, c)
		}
	}
	if len(fitting) == 0 {
		return "", false
	}

	switch strategy {
	case FirstAvailable:
		return fitting[0].TrackID, true

	case RoundRobin:
		idx := cursors.next(scope, len(fitting))
		return fitting[idx].TrackID, true

	case Random:
		idx := rng.Intn(len(fitting))
		return fitting[idx].TrackID, true

	case LeastOccupied, "":
		// Cache occupancy ratios during this single selection call
		// (spec.md §4.4 "Cache ratios during selection").
		best := fitting[0]
		bestRatio := occupancyRatio(best)
		for _, c := range fitting[1:] {
			ratio := occupancyRatio(c)
			if ratio < bestRatio || (ratio == bestRatio && c.TrackID < best.TrackID) {
				best = c
				bestRatio = ratio
			}
		}
		return best.TrackID, true

	default:
		panic(fmt.Sprintf("sim: unknown track selection strategy %q", strategy))
	}
}

func occupancyRatio(t trackCandidate) float64 {
	if t.Capacity == 0 {
		return 0
	}
	return t.Occupied / t.Capacity
}

// workshopCandidate is the minimal view WorkshopCapacityManager needs of a
// candidate workshop for selection.
type workshopCandidate struct {
	WorkshopID WorkshopID
	Available  int
	Stations   int
}

// selectWorkshop picks among workshops that have at least one free station,
// per spec.md §4.5's tie-break rule.
func selectWorkshop(strategy WorkshopSelectionStrategy, candidates []workshopCandidate) (WorkshopID, bool) {
	eligible := make([]workshopCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Available > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}

	switch strategy {
	case WorkshopFirstAvailable:
		return eligible[0].WorkshopID, true

	case WorkshopLeastOccupied, "":
		best := eligible[0]
		bestRatio := workshopOccupancyRatio(best)
		for _, c := range eligible[1:] {
			ratio := workshopOccupancyRatio(c)
			if ratio < bestRatio || (ratio == bestRatio && c.WorkshopID < best.WorkshopID) {
				best = c
				bestRatio = ratio
			}
		}
		return best.WorkshopID, true

	default:
		panic(fmt.Sprintf("sim: unknown workshop selection strategy %q", strategy))
	}
}

func workshopOccupancyRatio(c workshopCandidate) float64 {
	if c.Stations == 0 {
		return 0
	}
	return float64(c.Stations-c.Available) / float64(c.Stations)
}
