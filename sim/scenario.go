package sim

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Scenario is the immutable, externally-produced input bundle (spec.md §3
// "Scenario", §6.1). Grounded on the teacher's grouped-config shape
// (sim/config.go's KVCacheConfig/BatchConfig/PolicyConfig) and validated
// with struct tags the way acdtunes-spacetraders validates its domain
// structs with go-playground/validator.
//
// Scenario's own fields are not changed after Validate succeeds, but the
// Track, Wagon, Locomotive and Workshop values it points to are used as the
// run's live state: a run updates their occupancy, status, position and
// station counts in place, so a Scenario is not reusable for a second Run.
type Scenario struct {
	StartTime  float64 `validate:"gte=0"`
	EndTime    float64 `validate:"gtfield=StartTime"`
	RandomSeed int64

	TrackSelectionStrategy    TrackSelectionStrategy    `validate:"required"`
	WorkshopSelectionStrategy WorkshopSelectionStrategy `validate:"required"`
	ParkingSelectionStrategy  WorkshopSelectionStrategy `validate:"required"`

	Eligibility WagonEligibility
	// AllowTrackOverflow relaxes the track-occupancy invariant (spec.md §3
	// "ALLOW_OVERFLOW policy").
	AllowTrackOverflow bool

	Tracks       []*Track        `validate:"required,dive,required"`
	Routes       []*Route        `validate:"dive"`
	Workshops    []*Workshop     `validate:"dive"`
	Locomotives  []*Locomotive   `validate:"required,dive,required"`
	ProcessTimes ProcessTimes
	Trains       []*TrainArrival `validate:"dive"`

	// CollectionBatchSize / RetrofittedBatchSize cap how many wagons a
	// single locomotive trip moves (spec.md §4.7.2, §4.7.4). Zero means
	// "all wagons currently ready" (spec.md §4.7.4 "default = all waiting").
	CollectionBatchSize  int
	RetrofittedBatchSize int
	ParkingBatchSize     int
}

var validate = validator.New()

// Validate checks the structural invariants spec.md §6.1 requires the
// (external) loader to have already established, as a defense-in-depth
// belt for the core: unique ids, valid track types, workshop/locomotive
// track references, route endpoints, arrival-time bounds, and enum
// membership for the strategy fields. An invalid scenario causes startup
// failure before the clock ever starts (spec.md §6.1, §7 "Configuration
// errors").
func (s *Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("sim: scenario failed validation: %w", err)
	}

	trackIDs := make(map[TrackID]*Track, len(s.Tracks))
	for _, t := range s.Tracks {
		if _, dup := trackIDs[t.TrackID]; dup {
			return fmt.Errorf("sim: duplicate track id %q", t.TrackID)
		}
		if !isValidTrackType(t.Type) {
			return fmt.Errorf("sim: track %q has invalid type %q", t.TrackID, t.Type)
		}
		if t.LengthM <= 0 {
			return fmt.Errorf("sim: track %q must have length_m > 0", t.TrackID)
		}
		trackIDs[t.TrackID] = t
	}

	workshopIDs := make(map[WorkshopID]bool, len(s.Workshops))
	for _, w := range s.Workshops {
		if workshopIDs[w.WorkshopID] {
			return fmt.Errorf("sim: duplicate workshop id %q", w.WorkshopID)
		}
		workshopIDs[w.WorkshopID] = true
		t, ok := trackIDs[w.TrackID]
		if !ok {
			return fmt.Errorf("sim: workshop %q references unknown track %q", w.WorkshopID, w.TrackID)
		}
		if t.Type != TrackWorkshop {
			return fmt.Errorf("sim: workshop %q references track %q of type %q, want WORKSHOP", w.WorkshopID, w.TrackID, t.Type)
		}
		if w.RetrofitStations < 1 {
			return fmt.Errorf("sim: workshop %q must have retrofit_stations >= 1", w.WorkshopID)
		}
	}

	locoIDs := make(map[LocomotiveID]bool, len(s.Locomotives))
	for _, l := range s.Locomotives {
		if locoIDs[l.LocomotiveID] {
			return fmt.Errorf("sim: duplicate locomotive id %q", l.LocomotiveID)
		}
		locoIDs[l.LocomotiveID] = true
		if _, ok := trackIDs[l.HomeTrackID]; !ok {
			return fmt.Errorf("sim: locomotive %q references unknown home track %q", l.LocomotiveID, l.HomeTrackID)
		}
	}

	routeIDs := make(map[RouteID]bool, len(s.Routes))
	for _, r := range s.Routes {
		if routeIDs[r.RouteID] {
			return fmt.Errorf("sim: duplicate route id %q", r.RouteID)
		}
		routeIDs[r.RouteID] = true
		if _, ok := trackIDs[r.SourceTrackID]; !ok {
			return fmt.Errorf("sim: route %q references unknown source track %q", r.RouteID, r.SourceTrackID)
		}
		if _, ok := trackIDs[r.DestinationTrackID]; !ok {
			return fmt.Errorf("sim: route %q references unknown destination track %q", r.RouteID, r.DestinationTrackID)
		}
		if r.DurationMinutes < 0 {
			return fmt.Errorf("sim: route %q must have duration_minutes >= 0", r.RouteID)
		}
	}

	wagonIDs := make(map[WagonID]bool)
	for _, train := range s.Trains {
		if train.ArrivalTime < s.StartTime || train.ArrivalTime > s.EndTime {
			return fmt.Errorf("sim: train %q arrival_time %.2f outside [%.2f, %.2f]", train.TrainID, train.ArrivalTime, s.StartTime, s.EndTime)
		}
		for _, w := range train.Wagons {
			if wagonIDs[w.WagonID] {
				return fmt.Errorf("sim: duplicate wagon id %q", w.WagonID)
			}
			wagonIDs[w.WagonID] = true
			if w.LengthM <= 0 {
				return fmt.Errorf("sim: wagon %q must have length_m > 0", w.WagonID)
			}
		}
	}

	if !IsValidTrackSelectionStrategy(string(s.TrackSelectionStrategy)) {
		return fmt.Errorf("sim: unknown track_selection_strategy %q", s.TrackSelectionStrategy)
	}
	if !IsValidWorkshopSelectionStrategy(string(s.WorkshopSelectionStrategy)) {
		return fmt.Errorf("sim: unknown workshop_selection_strategy %q", s.WorkshopSelectionStrategy)
	}
	if !IsValidWorkshopSelectionStrategy(string(s.ParkingSelectionStrategy)) {
		return fmt.Errorf("sim: unknown parking_selection_strategy %q", s.ParkingSelectionStrategy)
	}

	return nil
}

func isValidTrackType(t TrackType) bool {
	switch t {
	case TrackCollection, TrackRetrofit, TrackWorkshop, TrackRetrofitted, TrackParking, TrackResourceParking, TrackMainline:
		return true
	default:
		return false
	}
}
