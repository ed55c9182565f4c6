// Statistics accumulator: online, exact counters over completed and
// in-flight cyclists (spec §4.7).

package sim

import "fmt"

// edgeStatEntry is one (time, action, cyclist) record in a directed edge's
// entry/exit log.
type edgeStatEntry struct {
	Time      float64
	Enter     bool // true = enter, false = exit
	CyclistID int64
}

// edgeStats accumulates usage for one directed edge.
type edgeStats struct {
	Entries int
	Log     []edgeStatEntry
}

// cyclistRecord is the final per-cyclist statistics row (spec §4.7: "origin,
// destination, profile, edge list, per-edge elapsed, total distance, total
// time, state at end").
type cyclistRecord struct {
	ID            int64
	Origin, Dest  NodeID
	Profile       ProfileID
	Route         []NodeID
	EdgeElapsed   []float64
	TotalDistance float64
	TotalTime     float64
	State         CyclistState
}

// Statistics is the online accumulator described by spec §4.7. No sampling:
// every entry/exit and every completed cyclist is recorded exactly.
type Statistics struct {
	edges        map[edgeKey]*edgeStats
	routeCounts  map[string]int
	originArr    map[NodeID]int
	cyclists     []cyclistRecord
	droppedCount int // cyclists discarded with no valid destination or no route (spec §4.3 step 5)
}

// NewStatistics creates an empty accumulator.
func NewStatistics() *Statistics {
	return &Statistics{
		edges:       make(map[edgeKey]*edgeStats),
		routeCounts: make(map[string]int),
		originArr:   make(map[NodeID]int),
	}
}

// RecordArrival increments the per-origin arrival count.
func (s *Statistics) RecordArrival(origin NodeID) {
	s.originArr[origin]++
}

// RecordDropped increments the count of cyclists discarded before their
// trip: no valid destination could be drawn, or no route joins their
// origin and drawn destination.
func (s *Statistics) RecordDropped() {
	s.droppedCount++
}

// RecordEdgeEnter logs an entry event and bumps the edge's usage count.
func (s *Statistics) RecordEdgeEnter(from, to NodeID, at float64, cyclistID int64) {
	key := edgeKey{from, to}
	st, ok := s.edges[key]
	if !ok {
		st = &edgeStats{}
		s.edges[key] = st
	}
	st.Entries++
	st.Log = append(st.Log, edgeStatEntry{Time: at, Enter: true, CyclistID: cyclistID})
}

// RecordEdgeExit logs an exit event.
func (s *Statistics) RecordEdgeExit(from, to NodeID, at float64, cyclistID int64) {
	key := edgeKey{from, to}
	st, ok := s.edges[key]
	if !ok {
		st = &edgeStats{}
		s.edges[key] = st
	}
	st.Log = append(st.Log, edgeStatEntry{Time: at, Enter: false, CyclistID: cyclistID})
}

// routeKeyString renders a route as a stable map key.
func routeKeyString(route []NodeID) string {
	s := ""
	for i, n := range route {
		if i > 0 {
			s += ">"
		}
		s += string(n)
	}
	return s
}

// RecordRoute bumps the usage count of the given node sequence.
func (s *Statistics) RecordRoute(route []NodeID) {
	s.routeCounts[routeKeyString(route)]++
}

// RecordCompletion commits a cyclist's final record (spec §4.7).
func (s *Statistics) RecordCompletion(c *Cyclist) {
	s.cyclists = append(s.cyclists, cyclistRecord{
		ID:            c.ID,
		Origin:        c.Origin,
		Dest:          c.Dest,
		Profile:       c.Profile,
		Route:         append([]NodeID(nil), c.Route...),
		EdgeElapsed:   append([]float64(nil), c.EdgeElapsed...),
		TotalDistance: c.TotalDistance,
		TotalTime:     c.EndTime - c.StartTime,
		State:         c.State,
	})
}

// EdgeUsage returns the entry count for a directed edge.
func (s *Statistics) EdgeUsage(from, to NodeID) int {
	if st, ok := s.edges[edgeKey{from, to}]; ok {
		return st.Entries
	}
	return 0
}

// OriginArrivals returns the number of cyclists generated at origin.
func (s *Statistics) OriginArrivals(origin NodeID) int {
	return s.originArr[origin]
}

// RouteUsage returns the number of completed trips over the given route.
func (s *Statistics) RouteUsage(route []NodeID) int {
	return s.routeCounts[routeKeyString(route)]
}

// CompletedCount returns the number of cyclists whose records were committed.
func (s *Statistics) CompletedCount() int {
	return len(s.cyclists)
}

// DroppedCount returns the number of cyclists discarded for lack of a
// destination or a route.
func (s *Statistics) DroppedCount() int {
	return s.droppedCount
}

// TripTimeStats aggregates average/min/max trip time over completed
// cyclists (spec §4.7).
type TripTimeStats struct {
	Avg, Min, Max float64
	Count         int
}

// SpeedStats aggregates average/min/max observed speed (total_distance /
// total_time) over completed cyclists.
type SpeedStats struct {
	Avg, Min, Max float64
	Count         int
}

// TripTime computes TripTimeStats over every completed cyclist (state ==
// CyclistCompleted; in-flight cyclists at stop time are excluded per
// spec §4.5 "Per-cyclist cancellation").
func (s *Statistics) TripTime() TripTimeStats {
	var sum float64
	var stats TripTimeStats
	first := true
	for _, c := range s.cyclists {
		if c.State != CyclistCompleted {
			continue
		}
		sum += c.TotalTime
		if first {
			stats.Min, stats.Max = c.TotalTime, c.TotalTime
			first = false
		} else {
			if c.TotalTime < stats.Min {
				stats.Min = c.TotalTime
			}
			if c.TotalTime > stats.Max {
				stats.Max = c.TotalTime
			}
		}
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg = sum / float64(stats.Count)
	}
	return stats
}

// Speed computes SpeedStats over every completed cyclist.
func (s *Statistics) Speed() SpeedStats {
	var sum float64
	var stats SpeedStats
	first := true
	for _, c := range s.cyclists {
		if c.State != CyclistCompleted || c.TotalTime <= 0 {
			continue
		}
		v := c.TotalDistance / c.TotalTime
		sum += v
		if first {
			stats.Min, stats.Max = v, v
			first = false
		} else {
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
		}
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg = sum / float64(stats.Count)
	}
	return stats
}

// Summary renders a human-readable end-of-run report, mirroring the
// teacher's end-of-run metrics print.
func (s *Statistics) Summary() string {
	tt := s.TripTime()
	sp := s.Speed()
	return fmt.Sprintf(
		"=== Simulation Statistics ===\nCompleted cyclists : %d\nDropped (no route) : %d\nTrip time avg/min/max (s): %.2f/%.2f/%.2f\nSpeed avg/min/max (m/s): %.2f/%.2f/%.2f\n",
		s.CompletedCount(), s.droppedCount, tt.Avg, tt.Min, tt.Max, sp.Avg, sp.Min, sp.Max,
	)
}
