package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeVocabulary_IdForStableAndGrowing(t *testing.T) {
	v := NewAttributeVocabulary()
	lengthID, ok := v.Lookup("length")
	require.True(t, ok)
	assert.Equal(t, lengthID, v.idFor("length"))

	customID := v.idFor("scenic_score")
	assert.Equal(t, customID, v.idFor("scenic_score"))
	assert.Equal(t, "scenic_score", v.Name(customID))
}

func TestNetwork_AddEdge_RejectsNonPositiveLength(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddNode(Node{ID: "b"}))

	err := n.AddEdge("a", "b", 0, nil)
	assert.Error(t, err)
	err = n.AddEdge("a", "b", -5, nil)
	assert.Error(t, err)
}

func TestNetwork_AddEdge_RejectsOutOfRangeGrade(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddNode(Node{ID: "b"}))

	err := n.AddEdge("a", "b", 100, map[string]float64{"grade": 51})
	assert.Error(t, err)
}

func TestNetwork_AddEdge_ComputesCapacityFromLength(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddNode(Node{ID: "b"}))
	require.NoError(t, n.AddEdge("a", "b", 10, nil))
	require.NoError(t, n.Finalize())

	e, ok := n.Edge("a", "b")
	require.True(t, ok)
	assert.Equal(t, 4, e.Capacity) // floor(10/2.5)
}

func TestNetwork_Finalize_RejectsEdgeToUnknownNode(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddEdge("a", "b", 10, nil))
	assert.Error(t, n.Finalize())
}

func TestNetwork_Finalize_ComputesAttributeRanges(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddNode(Node{ID: "b"}))
	require.NoError(t, n.AddNode(Node{ID: "c"}))
	require.NoError(t, n.AddEdge("a", "b", 100, map[string]float64{"safety": 3}))
	require.NoError(t, n.AddEdge("b", "c", 200, map[string]float64{"safety": 9}))
	require.NoError(t, n.Finalize())

	lengthID, _ := n.Vocab.Lookup("length")
	r := n.Range(lengthID)
	assert.Equal(t, 100.0, r.Min)
	assert.Equal(t, 200.0, r.Max)

	safetyID, _ := n.Vocab.Lookup("safety")
	sr := n.Range(safetyID)
	assert.Equal(t, 3.0, sr.Min)
	assert.Equal(t, 9.0, sr.Max)
}

func TestNetwork_AddNode_RejectsDuplicateID(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	assert.Error(t, n.AddNode(Node{ID: "a"}))
}

func TestNetwork_DirectedEdgesAreIndependent(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.AddNode(Node{ID: "b"}))
	require.NoError(t, n.AddEdge("a", "b", 100, map[string]float64{"grade": 5}))
	require.NoError(t, n.AddEdge("b", "a", 100, map[string]float64{"grade": -5}))
	require.NoError(t, n.Finalize())

	ab, _ := n.Edge("a", "b")
	ba, _ := n.Edge("b", "a")
	assert.Equal(t, 5.0, ab.Grade)
	assert.Equal(t, -5.0, ba.Grade)
}
