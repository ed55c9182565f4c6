package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclesim/cyclesim/sim/workload"
)

// newTriangleScenario builds a three-node cycle (a->b->c->a, 100m legs, flat
// grade) with constant speed (VMin==VMax) so trip timing is fully
// deterministic, for use across sim package tests.
func newTriangleScenario(t *testing.T, tSim float64, seed int64) *Scenario {
	t.Helper()
	network := NewNetwork()
	require.NoError(t, network.AddNode(Node{ID: "a", X: 0, Y: 0}))
	require.NoError(t, network.AddNode(Node{ID: "b", X: 1, Y: 0}))
	require.NoError(t, network.AddNode(Node{ID: "c", X: 1, Y: 1}))
	require.NoError(t, network.AddEdge("a", "b", 100, nil))
	require.NoError(t, network.AddEdge("b", "c", 100, nil))
	require.NoError(t, network.AddEdge("c", "a", 100, nil))
	require.NoError(t, network.Finalize())

	od, err := NewODMatrix(map[NodeID]map[NodeID]float64{
		"a": {"b": 1},
		"b": {"c": 1},
		"c": {"a": 1},
	}, network)
	require.NoError(t, err)

	distributions := make(map[NodeID]workload.DistSpec, len(network.NodeIDs()))
	for _, id := range network.NodeIDs() {
		distributions[id] = workload.DistSpec{Kind: "exponential", Params: map[string]float64{"lambda": 1}}
	}

	return &Scenario{
		Network:       network,
		OD:            od,
		Distributions: distributions,
		Kinematics:    KinematicsConfig{VMin: 5, VMax: 5, TSim: tSim, Seed: seed},
		Router:        RouterConfig{},
	}
}
