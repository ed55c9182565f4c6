// Origin-destination matrix: per-origin destination probabilities, used by
// the decision block to draw a cyclist's destination at arrival time.

package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
)

// ODMatrix holds, for each origin node, a normalized probability
// distribution over destination nodes (spec §3: "rows normalized to sum to
// 1; diagonal entries forced to 0; origins with no row fall back to a
// uniform distribution over all other nodes").
type ODMatrix struct {
	dests map[NodeID][]NodeID
	cum   map[NodeID][]float64
}

// NewODMatrix builds an ODMatrix from raw per-origin destination weights.
// rows maps origin -> (destination -> weight). network supplies the full
// node set, used both for validation and for the uniform fallback.
func NewODMatrix(rows map[NodeID]map[NodeID]float64, network *Network) (*ODMatrix, error) {
	m := &ODMatrix{
		dests: make(map[NodeID][]NodeID),
		cum:   make(map[NodeID][]float64),
	}

	for origin, row := range rows {
		if !network.HasNode(origin) {
			return nil, fmt.Errorf("sim: od matrix references unknown origin %q", origin)
		}
		dests := make([]NodeID, 0, len(row))
		for d := range row {
			dests = append(dests, d)
		}
		sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

		total := 0.0
		for _, d := range dests {
			if d == origin {
				continue // diagonal forced to 0
			}
			if !network.HasNode(d) {
				return nil, fmt.Errorf("sim: od matrix row %q references unknown destination %q", origin, d)
			}
			w := row[d]
			if w < 0 {
				return nil, fmt.Errorf("sim: od matrix weight (%q,%q) is negative: %v", origin, d, w)
			}
			total += w
		}
		if total <= 0 {
			// Degenerate row (all zero, or only a self-loop weight):
			// treat as absent and fall back to uniform below.
			continue
		}
		if total < 1-0.01 || total > 1+0.01 {
			logrus.Warnf("sim: od matrix row %q sums to %.4f, renormalizing", origin, total)
		}

		filtered := make([]NodeID, 0, len(dests))
		cum := make([]float64, 0, len(dests))
		running := 0.0
		for _, d := range dests {
			if d == origin {
				continue
			}
			running += row[d] / total
			filtered = append(filtered, d)
			cum = append(cum, running)
		}
		cum[len(cum)-1] = 1.0
		m.dests[origin] = filtered
		m.cum[origin] = cum
	}

	for _, id := range network.NodeIDs() {
		if _, ok := m.dests[id]; ok {
			continue
		}
		others := make([]NodeID, 0, len(network.NodeIDs()))
		for _, other := range network.NodeIDs() {
			if other != id {
				others = append(others, other)
			}
		}
		if len(others) == 0 {
			continue // single-node network: no valid destination ever
		}
		cum := make([]float64, len(others))
		step := 1.0 / float64(len(others))
		running := 0.0
		for i := range others {
			running += step
			cum[i] = running
		}
		cum[len(cum)-1] = 1.0
		m.dests[id] = others
		m.cum[id] = cum
	}

	return m, nil
}

// Sample draws a destination for origin according to its row. Returns false
// if origin has no valid destination (a single-node network).
func (m *ODMatrix) Sample(origin NodeID, rng *rand.Rand) (NodeID, bool) {
	dests, ok := m.dests[origin]
	if !ok || len(dests) == 0 {
		return "", false
	}
	cum := m.cum[origin]
	r := rng.Float64()
	idx := sort.SearchFloat64s(cum, r)
	if idx >= len(dests) {
		idx = len(dests) - 1
	}
	return dests[idx], true
}
