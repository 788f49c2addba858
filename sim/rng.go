package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two runs
// with the same SimulationKey and identical scenario MUST produce
// bit-for-bit identical event logs (spec.md §5 "Determinism").
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a scenario's random seed.
func NewSimulationKey(seed int64) SimulationKey { return SimulationKey(seed) }

// Subsystem names for PartitionedRNG.ForSubsystem. Each name yields its own
// stream. TrackCapacityManager.Select draws from the track-selection stream
// for every scope, parking included, so RANDOM parking and RANDOM track
// selection share one sequence; the workshop and parking names are not used
// by any selection.
const (
	SubsystemTrackSelection    = "track-selection"
	SubsystemWorkshopSelection = "workshop-selection"
	SubsystemParkingSelection  = "parking-selection"
)

// PartitionedRNG provides deterministic, isolated RNG streams per strategy
// subsystem, derived from a single scenario seed (spec.md §5, §9 "RNG").
// Grounded on the teacher's sim/rng.go and sim/cluster/rng.go: the same
// masterSeed XOR FNV-1a64(subsystemName) derivation, generalized from the
// teacher's per-instance streams to PopUpSim's per-strategy streams.
//
// Thread-safety: NOT thread-safe. The Clock drives all coordinators on a
// single logical thread of control, so no locking is required (spec.md §5).
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same cached *rand.Rand. Never
// returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
