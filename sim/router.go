// Composite-weight router: per-profile edge weighting, Dijkstra shortest
// path via gonum, and an LRU-memoized route cache (spec §4.3).

package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// routeNormLo/Hi are the normalization bounds of spec §4.3 step 2:
// "normalize to [1,10]".
const (
	routeNormLo = 1.0
	routeNormHi = 10.0
	routeNormMid = 5.5 // used when max_a == min_a
)

// invertedAttrs lists attributes where smaller is better, so their
// normalized value is inverted (spec §4.3 step 3). Grade is normalized by
// its signed value, so a steeper uphill edge scores worse and a steeper
// downhill edge scores better; its magnitude is not used.
var invertedAttrs = map[string]bool{"length": true, "grade": true}

// routeKey memoizes a computed path by profile and endpoints.
type routeKey struct {
	Profile  ProfileID
	Origin   NodeID
	Dest     NodeID
}

// routeResult is a cached shortest path.
type routeResult struct {
	Nodes []NodeID
	Found bool
}

// lruNode is an intrusive doubly-linked-list node backing the route cache's
// LRU eviction, mirroring the teacher's KVBlock free-list structure.
type lruNode struct {
	key        routeKey
	val        routeResult
	prev, next *lruNode
}

// routeCache is a fixed-capacity LRU keyed by (profile, origin, dest).
type routeCache struct {
	capacity   int
	index      map[routeKey]*lruNode
	head, tail *lruNode // head = most recently used, tail = least
}

func newRouteCache(capacity int) *routeCache {
	return &routeCache{capacity: capacity, index: make(map[routeKey]*lruNode)}
}

func (c *routeCache) get(key routeKey) (routeResult, bool) {
	n, ok := c.index[key]
	if !ok {
		return routeResult{}, false
	}
	c.moveToFront(n)
	return n.val, true
}

func (c *routeCache) put(key routeKey, val routeResult) {
	if n, ok := c.index[key]; ok {
		n.val = val
		c.moveToFront(n)
		return
	}
	n := &lruNode{key: key, val: val}
	c.index[key] = n
	c.pushFront(n)
	if len(c.index) > c.capacity {
		c.evictTail()
	}
}

func (c *routeCache) pushFront(n *lruNode) {
	n.prev, n.next = nil, c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *routeCache) detach(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (c *routeCache) moveToFront(n *lruNode) {
	if c.head == n {
		return
	}
	c.detach(n)
	c.pushFront(n)
}

func (c *routeCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.index, c.tail.key)
	c.detach(c.tail)
}

// Router computes profile-weighted shortest paths over a Network.
type Router struct {
	network *Network
	cache   *routeCache
	graphs  map[ProfileID]*weightedGraph
}

// weightedGraph pairs a built gonum graph with the NodeID<->int64 mapping
// used to address it (gonum graphs are keyed by int64 node ids).
type weightedGraph struct {
	g       *simple.WeightedDirectedGraph
	idOf    map[NodeID]int64
	nodeOf  map[int64]NodeID
}

// NewRouter builds a Router over network with the given cache capacity.
func NewRouter(network *Network, cfg RouterConfig) *Router {
	return &Router{
		network: network,
		cache:   newRouteCache(cfg.cacheSize()),
		graphs:  make(map[ProfileID]*weightedGraph),
	}
}

// normalize maps x into [1,10] given the attribute's (min,max) range,
// returning the midpoint when the range is degenerate (spec §4.3 step 2).
func normalize(x float64, r AttributeRange) float64 {
	if r.Max <= r.Min {
		return routeNormMid
	}
	return routeNormLo + (routeNormHi-routeNormLo)*(x-r.Min)/(r.Max-r.Min)
}

// compositeWeight computes the Dijkstra edge cost for profile p over edge e
// (spec §4.3 steps 1-4): each weighted attribute is normalized to a [1,10]
// preference score (higher = more preferred), and the cost sums the weighted
// complements of those scores, so more preferred edges cost less.
func compositeWeight(e *Edge, profile CyclistProfile, vocab *AttributeVocabulary, network *Network) float64 {
	if len(profile.Weights) == 0 {
		return e.Length // length-only fallback, weight 1
	}

	total := 0.0
	matched := false
	for attrID, w := range profile.Weights {
		if attrID >= len(e.Present) || !e.Present[attrID] {
			continue
		}
		matched = true
		n := normalize(e.Attrs[attrID], network.Range(attrID))
		if invertedAttrs[vocab.Name(attrID)] {
			n = (routeNormLo + routeNormHi) - n
		}
		// Dijkstra minimizes, so the cost is the score's complement.
		total += w * ((routeNormLo + routeNormHi) - n)
	}
	if !matched {
		// A' empty: fall back to length with weight 1 (spec §4.3 step 1).
		return e.Length
	}
	const epsilon = 1e-9
	if total <= 0 {
		return epsilon
	}
	return total
}

// graphFor returns (building if necessary) the weighted graph for profile.
func (r *Router) graphFor(profile CyclistProfile) *weightedGraph {
	if wg, ok := r.graphs[profile.ID]; ok {
		return wg
	}

	wg := &weightedGraph{
		g:      simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		idOf:   make(map[NodeID]int64),
		nodeOf: make(map[int64]NodeID),
	}
	ids := append([]NodeID(nil), r.network.NodeIDs()...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] }) // deterministic tie-break (spec §4.3 step 5)
	for i, id := range ids {
		gid := int64(i)
		wg.idOf[id] = gid
		wg.nodeOf[gid] = id
		wg.g.AddNode(simple.Node(gid))
	}

	r.network.AllEdges(func(e *Edge) {
		w := compositeWeight(e, profile, r.network.Vocab, r.network)
		wg.g.SetWeightedEdge(wg.g.NewWeightedEdge(
			simple.Node(wg.idOf[e.From]), simple.Node(wg.idOf[e.To]), w,
		))
	})

	r.graphs[profile.ID] = wg
	return wg
}

// Route returns the node sequence of the shortest path origin->dest under
// profile's composite weights, using the memoized cache when available.
func (r *Router) Route(profile CyclistProfile, origin, dest NodeID) ([]NodeID, bool) {
	key := routeKey{Profile: profile.ID, Origin: origin, Dest: dest}
	if cached, ok := r.cache.get(key); ok {
		return cached.Nodes, cached.Found
	}

	wg := r.graphFor(profile)
	originGID, ok := wg.idOf[origin]
	if !ok {
		r.cache.put(key, routeResult{})
		return nil, false
	}
	shortest := path.DijkstraFrom(simple.Node(originGID), wg.g)
	destGID, ok := wg.idOf[dest]
	if !ok {
		r.cache.put(key, routeResult{})
		return nil, false
	}
	gnodes, _ := shortest.To(destGID)
	if len(gnodes) == 0 {
		r.cache.put(key, routeResult{})
		return nil, false
	}

	nodes := make([]NodeID, len(gnodes))
	for i, gn := range gnodes {
		nodes[i] = wg.nodeOf[gn.ID()]
	}
	result := routeResult{Nodes: nodes, Found: true}
	r.cache.put(key, result)
	return nodes, true
}
