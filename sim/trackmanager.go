package sim

import (
	"math/rand"
	"sort"
)

// TrackCapacityManager owns per-track occupancy accounting and track
// selection (spec.md §4.4). Grounded on the teacher's KV-cache capacity
// bookkeeping (sim/kvcache.go / sim/kv_store.go: CanAdd/Add/Remove-shaped
// operations over a bounded resource), generalized from "KV blocks" to
// "track length meters".
type TrackCapacityManager struct {
	tracks     map[TrackID]*Track
	byType     map[TrackType][]TrackID // declared order, for FIRST_AVAILABLE/ROUND_ROBIN
	cursors    *roundRobinCursors
	rng        *PartitionedRNG
	allowOverflow bool
}

// NewTrackCapacityManager builds a manager over the given tracks, preserving
// declared order within each TrackType. allowOverflow relaxes the
// CurrentOccupancyM <= LengthM invariant (spec.md §3 "ALLOW_OVERFLOW
// policy"); when false (the default), Add refuses to exceed capacity.
func NewTrackCapacityManager(tracks []*Track, rng *PartitionedRNG, allowOverflow bool) *TrackCapacityManager {
	m := &TrackCapacityManager{
		tracks:        make(map[TrackID]*Track, len(tracks)),
		byType:        make(map[TrackType][]TrackID),
		cursors:       newRoundRobinCursors(),
		rng:           rng,
		allowOverflow: allowOverflow,
	}
	for _, t := range tracks {
		m.tracks[t.TrackID] = t
		m.byType[t.Type] = append(m.byType[t.Type], t.TrackID)
	}
	return m
}

// Track returns the Track by id, or nil if unknown.
func (m *TrackCapacityManager) Track(id TrackID) *Track { return m.tracks[id] }

// TracksOfType returns the track ids declared with the given type, in
// declared order.
func (m *TrackCapacityManager) TracksOfType(t TrackType) []TrackID {
	out := make([]TrackID, len(m.byType[t]))
	copy(out, m.byType[t])
	return out
}

// CanAdd reports whether length more can be accommodated on track id without
// exceeding its capacity (spec.md §4.4).
func (m *TrackCapacityManager) CanAdd(id TrackID, length float64) bool {
	t := m.tracks[id]
	if t == nil {
		return false
	}
	return t.CurrentOccupancyM+length <= t.LengthM
}

// integrateOccupancy folds the occupancy held since t.lastChangeTime into
// OccupiedLengthMinutes before applying a change at now, the same
// time-weighted accounting workshopOccupiedMin applies to station time
// (spec.md §4.8 "Per track" utilization).
func integrateOccupancy(t *Track, now float64) {
	if now > t.lastChangeTime {
		t.OccupiedLengthMinutes += t.CurrentOccupancyM * (now - t.lastChangeTime)
		t.lastChangeTime = now
	}
}

// Add records length more occupancy on track id at time now. Violating the
// capacity invariant without allowOverflow is an implementation bug
// (spec.md §7 "Invariant violations") and aborts the run.
func (m *TrackCapacityManager) Add(id TrackID, length float64, now float64) {
	t := m.tracks[id]
	if t == nil {
		abort("Add: unknown track %s", id)
	}
	if !m.allowOverflow && t.CurrentOccupancyM+length > t.LengthM+1e-9 {
		abort("Add: track %s would overflow (%.3f + %.3f > %.3f)", id, t.CurrentOccupancyM, length, t.LengthM)
	}
	integrateOccupancy(t, now)
	t.CurrentOccupancyM += length
	if t.CurrentOccupancyM > t.PeakOccupancyM {
		t.PeakOccupancyM = t.CurrentOccupancyM
	}
}

// Remove releases length occupancy from track id at time now. Removing
// more than is occupied is an implementation bug and aborts the run.
func (m *TrackCapacityManager) Remove(id TrackID, length float64, now float64) {
	t := m.tracks[id]
	if t == nil {
		abort("Remove: unknown track %s", id)
	}
	if t.CurrentOccupancyM-length < -1e-9 {
		abort("Remove: track %s would go negative (%.3f - %.3f)", id, t.CurrentOccupancyM, length)
	}
	integrateOccupancy(t, now)
	t.CurrentOccupancyM -= length
	if t.CurrentOccupancyM < 0 {
		t.CurrentOccupancyM = 0
	}
}

// Select chooses a track from candidateIDs per strategy, returning ("",
// false) if no candidate can fit length (spec.md §4.4). scope disambiguates
// independent ROUND_ROBIN cursors (e.g. "collection" vs "parking").
func (m *TrackCapacityManager) Select(scope string, candidateIDs []TrackID, length float64, strategy TrackSelectionStrategy) (TrackID, bool) {
	candidates := make([]trackCandidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		t := m.tracks[id]
		if t == nil {
			continue
		}
		candidates = append(candidates, trackCandidate{TrackID: t.TrackID, Occupied: t.CurrentOccupancyM, Capacity: t.LengthM})
	}
	var rng *rand.Rand
	if m.rng != nil {
		rng = m.rng.ForSubsystem(SubsystemTrackSelection)
	}
	return selectTrack(strategy, scope, candidates, length, m.cursors, rng)
}

// sortedTrackIDs returns a stable listing of all known track ids; the
// orchestrator uses it to build per-track KPIs in a fixed order.
func (m *TrackCapacityManager) sortedTrackIDs() []TrackID {
	ids := make([]TrackID, 0, len(m.tracks))
	for id := range m.tracks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
