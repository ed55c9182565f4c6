// Cyclist entity and its arena-style reuse pool (spec §3 Cyclist, §9
// "object pooling of cyclists").

package sim

// CyclistState is the coarse lifecycle state of a cyclist (spec §3).
type CyclistState int

const (
	CyclistPending CyclistState = iota
	CyclistActive
	CyclistCompleted
)

func (s CyclistState) String() string {
	switch s {
	case CyclistPending:
		return "pending"
	case CyclistActive:
		return "active"
	case CyclistCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// cyclistPhase is the agent process's resume point within one edge
// traversal (spec §4.5: "phaseEdgeEntry → phaseTraversing → phaseEdgeExit →
// ... → phaseDone").
type cyclistPhase int

const (
	phaseEdgeEntry cyclistPhase = iota
	phaseTraversing
	phaseEdgeExit
	phaseDone
)

// trajectoryCap bounds the visualization ring buffer (spec §3: "size cap ≈ 50").
const trajectoryCap = 50

// completedSentinel is the off-network position assigned to a cyclist on
// completion (spec §4.5 step 5: "position moved out of the visible region
// (by convention set to a sentinel)").
const completedSentinel = -1.0

// trajectoryPoint is one recorded position sample.
type trajectoryPoint struct {
	Time float64
	X, Y float64
}

// Cyclist is one agent's full trip state (spec §3).
type Cyclist struct {
	ID      int64
	poolIdx int // this cyclist's slot in its CyclistPool's arena
	X, Y    float64
	V0     float64 // base speed, m/s, drawn uniform(v_min, v_max) at birth
	Route  []NodeID
	EdgeIx int // current edge index into Route (edge i is Route[i]->Route[i+1])
	State  CyclistState
	Phase  cyclistPhase

	Profile ProfileID
	Origin  NodeID
	Dest    NodeID

	StartTime float64
	EndTime   float64

	EdgeElapsed   []float64 // per-edge elapsed time, appended on each edge exit
	TotalDistance float64

	trajectory    [trajectoryCap]trajectoryPoint
	trajectoryLen int
	trajectoryPos int // next write index, wraps

	// In-progress edge traversal state, valid while Phase == phaseTraversing.
	edgeLength   float64
	edgePhi      float64 // time-dilation factor, fixed for the edge
	edgeVG       float64 // grade-adjusted speed, fixed for the edge
	microStep    int     // next micro-step index to execute, 1-based
	microStepCnt int     // K, total micro-steps for the current edge plan
	microDT      float64 // dt for the current plan
	distAtEntry  float64 // TotalDistance at edge entry, for interpolation
	edgeEntered  float64 // clock time the current edge was entered
}

// recordPosition appends a trajectory sample, downsampling (overwriting the
// oldest slot) once the ring is at capacity (spec §3 cap ≈ 50).
func (c *Cyclist) recordPosition(now, x, y float64) {
	c.trajectory[c.trajectoryPos] = trajectoryPoint{Time: now, X: x, Y: y}
	c.trajectoryPos = (c.trajectoryPos + 1) % trajectoryCap
	if c.trajectoryLen < trajectoryCap {
		c.trajectoryLen++
	}
}

// Trajectory returns recorded positions in chronological order.
func (c *Cyclist) Trajectory() []trajectoryPoint {
	out := make([]trajectoryPoint, c.trajectoryLen)
	if c.trajectoryLen < trajectoryCap {
		copy(out, c.trajectory[:c.trajectoryLen])
		return out
	}
	// Ring is full: trajectoryPos is the oldest slot (next to be overwritten).
	copy(out, c.trajectory[c.trajectoryPos:])
	copy(out[trajectoryCap-c.trajectoryPos:], c.trajectory[:c.trajectoryPos])
	return out
}

// AtFinalEdge reports whether the cyclist's current edge is the last one in
// its route (spec §3 invariant: active cyclists have current_edge_index <
// len(route)-1 while traversing).
func (c *Cyclist) AtFinalEdge() bool {
	return c.EdgeIx >= len(c.Route)-2
}

// CurrentEdge returns the (from,to) pair for the cyclist's current edge.
func (c *Cyclist) CurrentEdge() (NodeID, NodeID) {
	return c.Route[c.EdgeIx], c.Route[c.EdgeIx+1]
}

// reset restores a cyclist struct to its zero trip state, for pool reuse.
func (c *Cyclist) reset() {
	id, idx := c.ID, c.poolIdx
	*c = Cyclist{ID: id, poolIdx: idx}
}

// CyclistPool is a dense arena of Cyclist values; completed cyclists are
// recycled after a retention window instead of freed, removing allocation
// churn in long runs (spec §9 Design Notes: "arena+index").
type CyclistPool struct {
	arena     []*Cyclist
	free      []int // indices of cyclists past their retention window
	nextID    int64
	retention float64 // seconds a completed cyclist stays addressable before reuse
}

// NewCyclistPool creates an empty pool. retentionSeconds is how long a
// completed cyclist's slot is preserved (for statistics lookups) before
// being eligible for reuse; 0 means slots are never proactively retained
// (they are still valid until the pool needs to recycle one).
func NewCyclistPool(retentionSeconds float64) *CyclistPool {
	return &CyclistPool{retention: retentionSeconds}
}

// Spawn allocates a new active-lifecycle cyclist, reusing a retired slot
// from the free list if one is available.
func (p *CyclistPool) Spawn() *Cyclist {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		c := p.arena[idx]
		c.reset()
		c.ID = p.nextID
		p.nextID++
		return c
	}
	c := &Cyclist{ID: p.nextID, poolIdx: len(p.arena)}
	p.nextID++
	p.arena = append(p.arena, c)
	return c
}

// Retention returns the configured retention window in seconds.
func (p *CyclistPool) Retention() float64 { return p.retention }

// Release puts arena slot idx on the free list at once, so the next Spawn
// may reuse it. It does not wait out the retention window itself: the
// caller schedules the release for EndTime + Retention().
func (p *CyclistPool) Release(idx int) {
	p.free = append(p.free, idx)
}

// Len returns the number of cyclist slots ever allocated (including
// recycled ones).
func (p *CyclistPool) Len() int { return len(p.arena) }

// At returns the cyclist occupying arena slot idx.
func (p *CyclistPool) At(idx int) *Cyclist { return p.arena[idx] }
