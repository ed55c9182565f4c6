// Results and snapshot export surface: plain Go structs with JSON struct
// tags so an external collaborator can serialize snapshot()/results()
// without this core depending on any serialization format beyond
// encoding/json (spec §6).

package sim

// SimStatus is the coarse run status reported by Snapshot (spec §7:
// "snapshot().status ∈ {idle, running, paused, completed, failed}").
type SimStatus string

const (
	StatusIdle      SimStatus = "idle"
	StatusRunning   SimStatus = "running"
	StatusPaused    SimStatus = "paused"
	StatusCompleted SimStatus = "completed"
	StatusFailed    SimStatus = "failed"
)

// snapshotPalette names the colors assigned to cyclist profiles for
// rendering, cycled by a stable hash of the profile id.
var snapshotPalette = []string{"red", "blue", "green", "orange", "purple", "teal", "magenta", "gold"}

// colorFor deterministically assigns one of snapshotPalette's names to a
// profile id, so the same profile always renders the same color within a
// run and across runs.
func colorFor(profile ProfileID) string {
	var h uint32
	for i := 0; i < len(profile); i++ {
		h = h*31 + uint32(profile[i])
	}
	return snapshotPalette[h%uint32(len(snapshotPalette))]
}

// CyclistSnapshot is one active cyclist's live rendering state (spec §6:
// "active cyclists' positions/colors/routes").
type CyclistSnapshot struct {
	ID      int64    `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Color   string   `json:"color"`
	Profile ProfileID `json:"profile"`
	Route   []NodeID `json:"route"`
	EdgeIx  int      `json:"edge_ix"`
}

// EdgeOccupancy is one directed edge's live occupancy count (spec §6:
// "per-edge occupancy").
type EdgeOccupancy struct {
	From     NodeID `json:"from"`
	To       NodeID `json:"to"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
}

// Snapshot is the read-only live view of a running simulation (spec §6:
// "snapshot() — read-only view of: clock, active cyclists'
// positions/colors/routes, per-edge occupancy, aggregate counters").
type Snapshot struct {
	Now         float64            `json:"now"`
	Status      SimStatus          `json:"status"`
	Cyclists    []CyclistSnapshot  `json:"cyclists"`
	Edges       []EdgeOccupancy    `json:"edges"`
	Aggregates  Aggregates         `json:"aggregates"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}

// Status reports the simulator's current coarse lifecycle state (spec §7).
// A constructed Simulator never reports StatusFailed: construction failure
// surfaces as an error from NewSimulator before a Simulator value exists at
// all; the status is defined here for API completeness.
func (sim *Simulator) Status() SimStatus {
	switch {
	case !sim.started:
		return StatusIdle
	case sim.stopped && sim.ActiveCount() == 0:
		return StatusCompleted
	case sim.stopped:
		// Stop flag raised (explicitly or by TerminationEvent) but in-flight
		// cyclists are still draining per spec §4.5 "Per-cyclist cancellation".
		return StatusPaused
	default:
		return StatusRunning
	}
}

// Snapshot materializes the simulator's current live state (spec §6). Safe
// to call at any point during a run.
func (sim *Simulator) Snapshot() Snapshot {
	cyclists := make([]CyclistSnapshot, 0, sim.ActiveCount())
	for _, c := range sim.active {
		cyclists = append(cyclists, CyclistSnapshot{
			ID:      c.ID,
			X:       c.X,
			Y:       c.Y,
			Color:   colorFor(c.Profile),
			Profile: c.Profile,
			Route:   c.Route,
			EdgeIx:  c.EdgeIx,
		})
	}

	edges := make([]EdgeOccupancy, 0, sim.Network.EdgeCount())
	sim.Network.AllEdges(func(e *Edge) {
		edges = append(edges, EdgeOccupancy{
			From:     e.From,
			To:       e.To,
			Count:    sim.Occupancy.Count(e.From, e.To),
			Capacity: e.Capacity,
		})
	})

	return Snapshot{
		Now:    sim.Now(),
		Status: sim.Status(),
		Cyclists:   cyclists,
		Edges:      edges,
		Aggregates: Aggregates{
			CompletedCount: sim.Statistics.CompletedCount(),
			TripTime:       sim.Statistics.TripTime(),
			Speed:          sim.Statistics.Speed(),
		},
		Diagnostics: *sim.Diagnostics,
	}
}

// CyclistRecord is one completed cyclist's final statistics row (spec
// §4.7). Rows are recorded on completion only: a cyclist still in flight
// when the run stops has no CyclistRecord.
type CyclistRecord struct {
	ID            int64    `json:"id"`
	Origin        NodeID   `json:"origin"`
	Dest          NodeID   `json:"dest"`
	Profile       ProfileID `json:"profile"`
	Route         []NodeID `json:"route"`
	EdgeElapsed   []float64 `json:"edge_elapsed"`
	TotalDistance float64  `json:"total_distance"`
	TotalTime     float64  `json:"total_time"`
	State         string   `json:"state"`
}

// EdgeRecord is one directed edge's observed usage.
type EdgeRecord struct {
	From     NodeID  `json:"from"`
	To       NodeID  `json:"to"`
	Entries  int     `json:"entries"`
	Capacity int     `json:"capacity"`
}

// Aggregates holds the run-wide derived statistics of spec §4.7.
type Aggregates struct {
	CompletedCount int           `json:"completed_count"`
	TripTime       TripTimeStats `json:"trip_time"`
	Speed          SpeedStats    `json:"speed"`
}

// Results is the post-run export returned by Simulator.Results (spec §6:
// "results() — post-run arrays: per-cyclist records, per-edge records,
// aggregates").
type Results struct {
	Now         float64         `json:"now"`
	Cyclists    []CyclistRecord `json:"cyclists"`
	Edges       []EdgeRecord    `json:"edges"`
	Aggregates  Aggregates      `json:"aggregates"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// Results materializes the current statistics into the exported Results
// shape. Safe to call at any point during a run, not just at completion;
// callers wanting the live view instead (clock, active cyclist positions,
// per-edge occupancy) should use Snapshot.
func (sim *Simulator) Results() Results {
	cyclists := make([]CyclistRecord, 0, sim.Statistics.CompletedCount())
	for _, c := range sim.Statistics.cyclists {
		cyclists = append(cyclists, CyclistRecord{
			ID:            c.ID,
			Origin:        c.Origin,
			Dest:          c.Dest,
			Profile:       c.Profile,
			Route:         c.Route,
			EdgeElapsed:   c.EdgeElapsed,
			TotalDistance: c.TotalDistance,
			TotalTime:     c.TotalTime,
			State:         c.State.String(),
		})
	}

	edges := make([]EdgeRecord, 0, sim.Network.EdgeCount())
	sim.Network.AllEdges(func(e *Edge) {
		edges = append(edges, EdgeRecord{
			From:     e.From,
			To:       e.To,
			Entries:  sim.Statistics.EdgeUsage(e.From, e.To),
			Capacity: e.Capacity,
		})
	})

	return Results{
		Now:      sim.Now(),
		Cyclists: cyclists,
		Edges:    edges,
		Aggregates: Aggregates{
			CompletedCount: sim.Statistics.CompletedCount(),
			TripTime:       sim.Statistics.TripTime(),
			Speed:          sim.Statistics.Speed(),
		},
		Diagnostics: *sim.Diagnostics,
	}
}
