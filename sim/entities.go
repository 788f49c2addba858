package sim

// Identity types (spec.md §3). Grounded on the teacher's sim/cluster/types.go
// typed-ID pattern (InstanceID, ConfigID, ModelID).
type (
	WagonID      string
	LocomotiveID string
	TrackID      string
	WorkshopID   string
	RouteID      string
	TrainID      string
)

// TrackType enumerates the topology roles a Track can play (spec.md §3).
type TrackType string

const (
	TrackCollection      TrackType = "COLLECTION"
	TrackRetrofit        TrackType = "RETROFIT"
	TrackWorkshop        TrackType = "WORKSHOP"
	TrackRetrofitted     TrackType = "RETROFITTED"
	TrackParking         TrackType = "PARKING"
	TrackResourceParking TrackType = "RESOURCE_PARKING"
	TrackMainline        TrackType = "MAINLINE"
)

// WagonStatus enumerates the wagon lifecycle state machine (spec.md §4.6).
type WagonStatus string

const (
	WagonArriving         WagonStatus = "ARRIVING"
	WagonSelecting        WagonStatus = "SELECTING"
	WagonSelected         WagonStatus = "SELECTED"
	WagonRejected         WagonStatus = "REJECTED"
	WagonMoving           WagonStatus = "MOVING"
	WagonOnRetrofitTrack  WagonStatus = "ON_RETROFIT_TRACK"
	WagonMovingToStation  WagonStatus = "MOVING_TO_STATION"
	WagonRetrofitting     WagonStatus = "RETROFITTING"
	WagonRetrofitted      WagonStatus = "RETROFITTED"
	WagonMovingToParking  WagonStatus = "MOVING_TO_PARKING"
	WagonParked           WagonStatus = "PARKED"
)

// LocomotiveStatus enumerates locomotive activity states (spec.md §3).
type LocomotiveStatus string

const (
	LocoParking    LocomotiveStatus = "PARKING"
	LocoMoving     LocomotiveStatus = "MOVING"
	LocoCoupling   LocomotiveStatus = "COUPLING"
	LocoDecoupling LocomotiveStatus = "DECOUPLING"
)

// RejectionReason enumerates why a wagon was rejected (spec.md §4.7.1, §7).
type RejectionReason string

const (
	ReasonIneligibleLoaded    RejectionReason = "INELIGIBLE_LOADED"
	ReasonNotNeedingRetrofit  RejectionReason = "NOT_NEEDING_RETROFIT"
	ReasonNoCollectionTrack   RejectionReason = "NO_COLLECTION_TRACK_FITS"
	ReasonNoRetrofitTrack     RejectionReason = "NO_RETROFIT_TRACK_FITS"
	ReasonNoParkingTrack      RejectionReason = "NO_PARKING_TRACK_FITS"
)

// Wagon is a freight car moving through the retrofit pipeline (spec.md §3).
type Wagon struct {
	// Identity
	WagonID       WagonID
	TrainID       TrainID
	LengthM       float64
	IsLoaded      bool
	NeedsRetrofit bool

	// Mutable state
	Status            WagonStatus
	TrackID           TrackID
	ArrivalTime       float64
	RetrofitStartTime  float64
	RetrofitEndTime    float64
	RejectionReason    RejectionReason
	RejectionTime      float64
}

// StatusChange is one timestamped transition, used by locomotives for
// utilization accounting (spec.md §4.8 "Per locomotive").
type StatusChange struct {
	Status LocomotiveStatus
	At     float64
}

// Locomotive is a shunting engine that couples, decouples, and relocates
// wagon batches (spec.md §3).
type Locomotive struct {
	LocomotiveID  LocomotiveID
	HomeTrackID   TrackID
	Status        LocomotiveStatus
	TrackID       TrackID
	StatusHistory []StatusChange
}

// SetStatus records a status transition with its timestamp.
func (l *Locomotive) SetStatus(status LocomotiveStatus, at float64) {
	l.Status = status
	l.StatusHistory = append(l.StatusHistory, StatusChange{Status: status, At: at})
}

// Track is a typed, length-bounded segment that can host wagons or a
// locomotive (spec.md §3).
type Track struct {
	TrackID           TrackID
	Type              TrackType
	LengthM           float64
	CurrentOccupancyM float64
	PeakOccupancyM    float64

	// OccupiedLengthMinutes accumulates CurrentOccupancyM integrated over
	// time (spec.md §4.8 "Per track" utilization), updated by
	// TrackCapacityManager.Add/Remove every time occupancy changes, the
	// same time-weighted accounting computeWorkshopKPI applies to
	// workshop stations.
	OccupiedLengthMinutes float64
	// lastChangeTime is the sim time OccupiedLengthMinutes was last
	// integrated up to.
	lastChangeTime float64
}

// Workshop is an abstraction over N identical retrofit stations attached to
// a WORKSHOP track (spec.md §3).
type Workshop struct {
	WorkshopID      WorkshopID
	TrackID         TrackID
	RetrofitStations int
	StationsInUse    int
}

// Route is a precomputed, durationed move between two tracks (spec.md §3).
// The core does no path-finding; path is informational only.
type Route struct {
	RouteID           RouteID
	SourceTrackID     TrackID
	DestinationTrackID TrackID
	DurationMinutes   float64
	Path              []TrackID
}

// TrainArrival is a scheduled train with its ordered wagon consist
// (spec.md §3).
type TrainArrival struct {
	TrainID       TrainID
	ArrivalTime   float64
	Wagons        []*Wagon
	EntryTrackType TrackType
}

// ProcessTimes groups the fixed-duration operations applied during coupling,
// decoupling, and retrofit (spec.md §3 "ProcessTimes"). All fields are
// minutes, >= 0.
type ProcessTimes struct {
	WagonRetrofitTime  float64
	TrainToHumpDelay   float64
	WagonHumpInterval  float64
	ScrewCouplingTime  float64
	ScrewDecouplingTime float64
	DACCouplingTime    float64
	DACDecouplingTime  float64
	WagonToStationTime float64
}
