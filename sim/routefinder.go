package sim

// RouteFinder looks up precomputed routes by (source, destination) pair
// (spec.md §3 "Route", §4 "RouteFinder (lookup by source/destination)"). The
// core never does path-finding: routes are provided with durations by the
// scenario.
type RouteFinder struct {
	routes map[routeKey]*Route
}

type routeKey struct {
	source      TrackID
	destination TrackID
}

// NewRouteFinder indexes routes by (source, destination).
func NewRouteFinder(routes []*Route) *RouteFinder {
	f := &RouteFinder{routes: make(map[routeKey]*Route, len(routes))}
	for _, r := range routes {
		f.routes[routeKey{r.SourceTrackID, r.DestinationTrackID}] = r
	}
	return f
}

// Find returns the route from source to destination, or nil if none exists
// (spec.md §3 "If no route exists, movement fails (§7)").
func (f *RouteFinder) Find(source, destination TrackID) *Route {
	return f.routes[routeKey{source, destination}]
}
