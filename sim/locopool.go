package sim

// LocomotivePool is a FIFO store of locomotives, preloaded at construction
// (spec.md §4.3). Grounded on the teacher's WaitQueue-backed resource
// pattern, generalized to a Store[*Locomotive] with Get/Put plus a registry
// of all locomotives (retained regardless of availability) for utilization
// metrics — exactly spec.md §4.3's "Maintains all_locomotives... for
// metrics".
type LocomotivePool struct {
	store *Store[*Locomotive]
	all   map[LocomotiveID]*Locomotive
}

// NewLocomotivePool preloads the pool with locomotives, each starting
// PARKING at its home track.
func NewLocomotivePool(locos []*Locomotive, at float64) *LocomotivePool {
	p := &LocomotivePool{store: NewStore[*Locomotive](), all: make(map[LocomotiveID]*Locomotive, len(locos))}
	for _, l := range locos {
		l.TrackID = l.HomeTrackID
		l.SetStatus(LocoParking, at)
		p.store.Put(l)
		p.all[l.LocomotiveID] = l
	}
	return p
}

// GetAsync acquires one locomotive, invoking cb immediately if one is free
// or once one becomes available (spec.md §4.3 "get() returns one locomotive
// (blocks when empty)").
func (p *LocomotivePool) GetAsync(cb func(*Locomotive)) {
	p.store.GetAsync(cb)
}

// Put returns a locomotive to the pool. Never blocks (spec.md §4.3).
func (p *LocomotivePool) Put(l *Locomotive) {
	p.store.Put(l)
}

// All returns every locomotive registered with the pool, regardless of
// current availability, for end-of-run metrics (spec.md §4.3, §4.8).
func (p *LocomotivePool) All() []*Locomotive {
	out := make([]*Locomotive, 0, len(p.all))
	for _, l := range p.all {
		out = append(out, l)
	}
	return out
}
