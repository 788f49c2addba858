package sim

// wagonTransitions enumerates the legal (from, to) pairs of spec.md §4.6.
// Grounded on the teacher's RequestState transition comments (sim/request.go)
// and the causality-assertion convention in sim/cluster/cluster.go's
// handleRequestCompleted, generalized from an inline panic check into a
// table-driven Transition function so every coordinator goes through one
// choke point.
var wagonTransitions = map[WagonStatus]map[WagonStatus]bool{
	WagonArriving:        {WagonSelecting: true},
	WagonSelecting:       {WagonSelected: true, WagonRejected: true},
	WagonSelected:        {WagonMoving: true},
	WagonMoving:          {WagonOnRetrofitTrack: true, WagonRetrofitted: true, WagonParked: true},
	WagonOnRetrofitTrack: {WagonMovingToStation: true},
	WagonMovingToStation: {WagonRetrofitting: true},
	WagonRetrofitting:    {WagonRetrofitted: true},
	WagonRetrofitted:     {WagonMoving: true},
	WagonMovingToParking: {WagonParked: true},
}

// Transition moves w to status at time `at`, raising a fatal AbortError if
// the transition is not legal per spec.md §4.6 (spec.md §7 "attempt to
// transition from a terminal status" is one instance of this general
// check). RETROFITTING and RETROFITTED capture timestamps on entry (spec.md
// §4.6 "Timestamps captured on enter").
func Transition(w *Wagon, to WagonStatus, at float64) {
	if w.Status == WagonParked || w.Status == WagonRejected {
		abort("wagon %s: illegal transition from terminal status %s to %s", w.WagonID, w.Status, to)
	}
	allowed := wagonTransitions[w.Status]
	if !allowed[to] {
		abort("wagon %s: illegal transition %s -> %s", w.WagonID, w.Status, to)
	}
	w.Status = to
	switch to {
	case WagonRetrofitting:
		w.RetrofitStartTime = at
	case WagonRetrofitted:
		w.RetrofitEndTime = at
	case WagonRejected:
		w.RejectionTime = at
	}
}

// Reject transitions w to REJECTED with a reason, a special case of
// Transition because REJECTED carries a reason code and, per spec.md §7,
// is reachable from any non-terminal status: NO_RETROFIT_TRACK_FITS and
// NO_PARKING_TRACK_FITS are recoverable, wagon-level rejections raised well
// past SELECTING (from SELECTED, MOVING, and other in-flight statuses), not
// just the ineligibility check at selection time.
func Reject(w *Wagon, reason RejectionReason, at float64) {
	if w.Status == WagonParked || w.Status == WagonRejected {
		abort("wagon %s: rejection illegal from terminal status %s", w.WagonID, w.Status)
	}
	w.Status = WagonRejected
	w.RejectionReason = reason
	w.RejectionTime = at
}

// WagonEligibility configures the selection policy of spec.md §4.7.1 and
// §9 "Open questions" item 3.
type WagonEligibility struct {
	// RetrofitLoadedWagons relaxes the default eligibility rule to admit
	// loaded wagons for retrofit too (spec.md §6.4).
	RetrofitLoadedWagons bool
	// RouteIneligibleToParking decides whether needs_retrofit=false wagons
	// are rejected (the spec's default) or routed directly to parking
	// (spec.md §9 Open Question 3; SPEC_FULL.md Open Question Decision 3).
	RouteIneligibleToParking bool
}

// Eligible reports whether w qualifies for retrofit under the configured
// policy (spec.md §4.7.1: "needs_retrofit ∧ ¬is_loaded" by default).
func (e WagonEligibility) Eligible(w *Wagon) bool {
	if !w.NeedsRetrofit {
		return false
	}
	if w.IsLoaded && !e.RetrofitLoadedWagons {
		return false
	}
	return true
}
