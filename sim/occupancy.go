// Edge occupancy index: per-directed-edge sets of cyclists currently
// traversing it, backing the density congestion factor (spec §4.5, P1, P6).

package sim

// OccupancyIndex tracks, for every directed edge, the set of cyclist ids
// currently traversing it. A cyclist is a member of exactly one directed
// edge at any time while active (spec §3 invariants).
type OccupancyIndex struct {
	sets map[edgeKey]map[int64]struct{}
}

// NewOccupancyIndex creates an empty occupancy index.
func NewOccupancyIndex() *OccupancyIndex {
	return &OccupancyIndex{sets: make(map[edgeKey]map[int64]struct{})}
}

// Enter adds cyclistID to the occupancy set of (from,to). No-op if already
// present (entry is expected to be called exactly once per traversal).
func (o *OccupancyIndex) Enter(from, to NodeID, cyclistID int64) {
	key := edgeKey{from, to}
	set, ok := o.sets[key]
	if !ok {
		set = make(map[int64]struct{})
		o.sets[key] = set
	}
	set[cyclistID] = struct{}{}
}

// Exit removes cyclistID from the occupancy set of (from,to).
func (o *OccupancyIndex) Exit(from, to NodeID, cyclistID int64) {
	if set, ok := o.sets[edgeKey{from, to}]; ok {
		delete(set, cyclistID)
	}
}

// Count returns the current occupancy n of directed edge (from,to).
func (o *OccupancyIndex) Count(from, to NodeID) int {
	return len(o.sets[edgeKey{from, to}])
}

// Members returns the cyclist ids currently occupying (from,to). The
// returned slice is a snapshot, safe to range over while the index mutates.
func (o *OccupancyIndex) Members(from, to NodeID) []int64 {
	set := o.sets[edgeKey{from, to}]
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// TotalActive sums occupancy across every tracked directed edge, used by
// invariant tests asserting conservation of the active cyclist count (P1).
func (o *OccupancyIndex) TotalActive() int {
	total := 0
	for _, set := range o.sets {
		total += len(set)
	}
	return total
}
