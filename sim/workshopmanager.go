package sim

// WorkshopCapacityManager owns retrofit-station occupancy and workshop
// selection (spec.md §4.5). Station counts are independent of track length:
// station capacity is the sole retrofit throughput gate, so this manager
// does not touch TrackCapacityManager itself — the coordinator that occupies
// a station is responsible for also moving length between tracks per the
// accounting policy in spec.md §9 ("Retrofit-track accounting ambiguity").
//
// Each workshop's stations are gated by a Resource counting semaphore
// (spec.md §4.2): Occupy/Release claim and free slots through it, and
// Workshop.StationsInUse is kept as a mirror of the Resource's InUse count.
// Select reads the Resource itself, and KPI computation uses the World's
// counters, so nothing in sim reads the mirror.
type WorkshopCapacityManager struct {
	workshops map[WorkshopID]*Workshop
	stations  map[WorkshopID]*Resource
	order     []WorkshopID // declared order, for FIRST_AVAILABLE
}

// NewWorkshopCapacityManager builds a manager over the given workshops,
// preserving declared order.
func NewWorkshopCapacityManager(workshops []*Workshop) *WorkshopCapacityManager {
	m := &WorkshopCapacityManager{
		workshops: make(map[WorkshopID]*Workshop, len(workshops)),
		stations:  make(map[WorkshopID]*Resource, len(workshops)),
	}
	for _, w := range workshops {
		m.workshops[w.WorkshopID] = w
		m.stations[w.WorkshopID] = NewResource(w.RetrofitStations)
		m.order = append(m.order, w.WorkshopID)
	}
	return m
}

// Workshop returns the Workshop by id, or nil if unknown.
func (m *WorkshopCapacityManager) Workshop(id WorkshopID) *Workshop { return m.workshops[id] }

// Available reports the number of free stations on the given workshop
// (spec.md §4.5).
func (m *WorkshopCapacityManager) Available(id WorkshopID) int {
	res := m.stations[id]
	if res == nil {
		return 0
	}
	return res.Available()
}

// Occupy claims n stations on workshop id through its Resource. Exceeding
// capacity is an implementation bug and aborts the run (spec.md §4.5, §7)
// before any slot is claimed.
func (m *WorkshopCapacityManager) Occupy(id WorkshopID, n int) {
	w := m.workshops[id]
	res := m.stations[id]
	if w == nil || res == nil {
		abort("Occupy: unknown workshop %s", id)
	}
	if res.Available() < n {
		abort("Occupy: workshop %s would exceed station capacity (%d + %d > %d)", id, res.InUse(), n, res.Capacity())
	}
	for i := 0; i < n; i++ {
		res.TryRequest()
	}
	w.StationsInUse = res.InUse()
}

// Release frees n stations on workshop id through its Resource. Releasing
// beyond zero is an implementation bug and aborts the run.
func (m *WorkshopCapacityManager) Release(id WorkshopID, n int) {
	w := m.workshops[id]
	res := m.stations[id]
	if w == nil || res == nil {
		abort("Release: unknown workshop %s", id)
	}
	if res.InUse() < n {
		abort("Release: workshop %s station count would go negative (%d - %d)", id, res.InUse(), n)
	}
	for i := 0; i < n; i++ {
		res.Release()
	}
	w.StationsInUse = res.InUse()
}

// Select chooses a workshop with at least one free station among
// candidateIDs per strategy (spec.md §4.5 "Selection tie-break for
// workshops"). Returns ("", false) if none has capacity.
func (m *WorkshopCapacityManager) Select(candidateIDs []WorkshopID, strategy WorkshopSelectionStrategy) (WorkshopID, bool) {
	candidates := make([]workshopCandidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		w := m.workshops[id]
		if w == nil {
			continue
		}
		candidates = append(candidates, workshopCandidate{
			WorkshopID: w.WorkshopID,
			Available:  m.stations[id].Available(),
			Stations:   w.RetrofitStations,
		})
	}
	return selectWorkshop(strategy, candidates)
}

// All returns every workshop id in declared order.
func (m *WorkshopCapacityManager) All() []WorkshopID {
	out := make([]WorkshopID, len(m.order))
	copy(out, m.order)
	return out
}
