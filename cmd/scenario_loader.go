package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/OpenRailAssociation/popupsim/sim"
)

// scenarioFile is the on-disk YAML shape for a Scenario (spec.md §6.1 "a
// scenario file (format TBD, e.g. YAML/JSON)... is an external loader's
// responsibility, not the core's"). Grounded on the teacher's flat
// yaml-tagged config structs (sim/config.go) and comalice-statechartx's use
// of gopkg.in/yaml.v3 for its own workflow definitions.
type scenarioFile struct {
	StartTime  float64 `yaml:"start_time"`
	EndTime    float64 `yaml:"end_time"`
	RandomSeed int64   `yaml:"random_seed"`

	TrackSelectionStrategy    string `yaml:"track_selection_strategy"`
	WorkshopSelectionStrategy string `yaml:"workshop_selection_strategy"`
	ParkingSelectionStrategy  string `yaml:"parking_selection_strategy"`

	RetrofitLoadedWagons     bool `yaml:"retrofit_loaded_wagons"`
	RouteIneligibleToParking bool `yaml:"route_ineligible_to_parking"`
	AllowTrackOverflow       bool `yaml:"allow_track_overflow"`

	CollectionBatchSize  int `yaml:"collection_batch_size"`
	RetrofittedBatchSize int `yaml:"retrofitted_batch_size"`
	ParkingBatchSize     int `yaml:"parking_batch_size"`

	ProcessTimes struct {
		WagonRetrofitTime   float64 `yaml:"wagon_retrofit_time"`
		TrainToHumpDelay    float64 `yaml:"train_to_hump_delay"`
		WagonHumpInterval   float64 `yaml:"wagon_hump_interval"`
		ScrewCouplingTime   float64 `yaml:"screw_coupling_time"`
		ScrewDecouplingTime float64 `yaml:"screw_decoupling_time"`
		DACCouplingTime     float64 `yaml:"dac_coupling_time"`
		DACDecouplingTime   float64 `yaml:"dac_decoupling_time"`
		WagonToStationTime  float64 `yaml:"wagon_to_station_time"`
	} `yaml:"process_times"`

	Tracks []struct {
		TrackID string  `yaml:"track_id"`
		Type    string  `yaml:"type"`
		LengthM float64 `yaml:"length_m"`
	} `yaml:"tracks"`

	Routes []struct {
		RouteID         string   `yaml:"route_id"`
		SourceTrackID   string   `yaml:"source_track_id"`
		DestTrackID     string   `yaml:"destination_track_id"`
		DurationMinutes float64  `yaml:"duration_minutes"`
		Path            []string `yaml:"path"`
	} `yaml:"routes"`

	Workshops []struct {
		WorkshopID       string `yaml:"workshop_id"`
		TrackID          string `yaml:"track_id"`
		RetrofitStations int    `yaml:"retrofit_stations"`
	} `yaml:"workshops"`

	Locomotives []struct {
		LocomotiveID string `yaml:"locomotive_id"`
		HomeTrackID  string `yaml:"home_track_id"`
	} `yaml:"locomotives"`

	Trains []struct {
		TrainID     string  `yaml:"train_id"`
		ArrivalTime float64 `yaml:"arrival_time"`
		Wagons      []struct {
			WagonID       string  `yaml:"wagon_id"`
			LengthM       float64 `yaml:"length_m"`
			IsLoaded      bool    `yaml:"is_loaded"`
			NeedsRetrofit bool    `yaml:"needs_retrofit"`
		} `yaml:"wagons"`
	} `yaml:"trains"`
}

// LoadScenario reads and parses a scenario file from path into a
// *sim.Scenario, ready for sim.Run once Validate succeeds. This is the
// sole YAML-aware boundary in the repo: sim itself never imports an
// encoding package (spec.md §6.1 "core accepts an already-parsed,
// in-memory Scenario").
func LoadScenario(path string) (*sim.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: reading scenario file: %w", err)
	}

	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("cmd: parsing scenario YAML: %w", err)
	}

	scn := &sim.Scenario{
		StartTime:  f.StartTime,
		EndTime:    f.EndTime,
		RandomSeed: f.RandomSeed,

		TrackSelectionStrategy:    sim.TrackSelectionStrategy(f.TrackSelectionStrategy),
		WorkshopSelectionStrategy: sim.WorkshopSelectionStrategy(f.WorkshopSelectionStrategy),
		ParkingSelectionStrategy:  sim.WorkshopSelectionStrategy(f.ParkingSelectionStrategy),

		Eligibility: sim.WagonEligibility{
			RetrofitLoadedWagons:     f.RetrofitLoadedWagons,
			RouteIneligibleToParking: f.RouteIneligibleToParking,
		},
		AllowTrackOverflow: f.AllowTrackOverflow,

		CollectionBatchSize:  f.CollectionBatchSize,
		RetrofittedBatchSize: f.RetrofittedBatchSize,
		ParkingBatchSize:     f.ParkingBatchSize,

		ProcessTimes: sim.ProcessTimes{
			WagonRetrofitTime:   f.ProcessTimes.WagonRetrofitTime,
			TrainToHumpDelay:    f.ProcessTimes.TrainToHumpDelay,
			WagonHumpInterval:   f.ProcessTimes.WagonHumpInterval,
			ScrewCouplingTime:   f.ProcessTimes.ScrewCouplingTime,
			ScrewDecouplingTime: f.ProcessTimes.ScrewDecouplingTime,
			DACCouplingTime:     f.ProcessTimes.DACCouplingTime,
			DACDecouplingTime:   f.ProcessTimes.DACDecouplingTime,
			WagonToStationTime:  f.ProcessTimes.WagonToStationTime,
		},
	}

	for _, t := range f.Tracks {
		scn.Tracks = append(scn.Tracks, &sim.Track{
			TrackID: sim.TrackID(t.TrackID),
			Type:    sim.TrackType(t.Type),
			LengthM: t.LengthM,
		})
	}
	for _, r := range f.Routes {
		path := make([]sim.TrackID, len(r.Path))
		for i, p := range r.Path {
			path[i] = sim.TrackID(p)
		}
		scn.Routes = append(scn.Routes, &sim.Route{
			RouteID:            sim.RouteID(r.RouteID),
			SourceTrackID:      sim.TrackID(r.SourceTrackID),
			DestinationTrackID: sim.TrackID(r.DestTrackID),
			DurationMinutes:    r.DurationMinutes,
			Path:               path,
		})
	}
	for _, w := range f.Workshops {
		scn.Workshops = append(scn.Workshops, &sim.Workshop{
			WorkshopID:       sim.WorkshopID(w.WorkshopID),
			TrackID:          sim.TrackID(w.TrackID),
			RetrofitStations: w.RetrofitStations,
		})
	}
	for _, l := range f.Locomotives {
		scn.Locomotives = append(scn.Locomotives, &sim.Locomotive{
			LocomotiveID: sim.LocomotiveID(l.LocomotiveID),
			HomeTrackID:  sim.TrackID(l.HomeTrackID),
		})
	}
	for _, t := range f.Trains {
		train := &sim.TrainArrival{
			TrainID:     sim.TrainID(t.TrainID),
			ArrivalTime: t.ArrivalTime,
		}
		for _, w := range t.Wagons {
			train.Wagons = append(train.Wagons, &sim.Wagon{
				WagonID:       sim.WagonID(w.WagonID),
				TrainID:       train.TrainID,
				LengthM:       w.LengthM,
				IsLoaded:      w.IsLoaded,
				NeedsRetrofit: w.NeedsRetrofit,
			})
		}
		scn.Trains = append(scn.Trains, train)
	}

	return scn, nil
}
