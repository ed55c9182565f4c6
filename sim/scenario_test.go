package sim

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleYAML = `
nodes:
  - {id: a, x: 0, y: 0}
  - {id: b, x: 1, y: 0}
  - {id: c, x: 1, y: 1}
edges:
  - {origin: a, destination: b, length: 100}
  - {origin: b, destination: c, length: 100}
  - {origin: c, destination: a, length: 100}
od:
  a: {b: 1}
  b: {c: 1}
  c: {a: 1}
distributions:
  a: {kind: exponential, params: {lambda: 1}}
kinematics:
  v_min: 4
  v_max: 6
  t_sim: 100
  seed: 7
`

func writeScenarioFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_BuildsNetworkProfilesAndOD(t *testing.T) {
	path := writeScenarioFile(t, triangleYAML)
	scn, err := LoadScenario(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []NodeID{"a", "b", "c"}, scn.Network.NodeIDs())
	require.NotNil(t, scn.Profiles)
	assert.Equal(t, 4.0, scn.Kinematics.VMin)
	assert.Equal(t, 6.0, scn.Kinematics.VMax)
	assert.Equal(t, int64(7), scn.Kinematics.Seed)

	dest, ok := scn.OD.Sample("a", rand.New(rand.NewSource(1)))
	assert.True(t, ok)
	assert.Equal(t, NodeID("b"), dest)
}

func TestLoadScenario_DefaultsMissingDistributionPerNode(t *testing.T) {
	path := writeScenarioFile(t, triangleYAML)
	scn, err := LoadScenario(path)
	require.NoError(t, err)

	// "b" and "c" have no entry under distributions: in the YAML, so they
	// fall back to workload.DefaultDistSpec().
	_, ok := scn.Distributions["b"]
	require.True(t, ok)
	_, ok = scn.Distributions["c"]
	require.True(t, ok)
}

func TestLoadScenario_DefaultsRouterCacheSize(t *testing.T) {
	path := writeScenarioFile(t, triangleYAML)
	scn, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRouteCacheSize, scn.Router.MaxCacheEntries)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, triangleYAML+"\nbogus_top_level_field: true\n")
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_RejectsMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_RejectsEdgeToUnknownNode(t *testing.T) {
	bad := `
nodes:
  - {id: a, x: 0, y: 0}
edges:
  - {origin: a, destination: ghost, length: 10}
od:
  a: {a: 1}
kinematics: {v_min: 1, v_max: 1, t_sim: 10}
`
	path := writeScenarioFile(t, bad)
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestScenario_Validate_RejectsEmptyNetwork(t *testing.T) {
	scn := &Scenario{Network: NewNetwork(), Kinematics: KinematicsConfig{VMin: 1, VMax: 1, TSim: 1}}
	err := scn.Validate()
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, ve.Problems, "scenario has no nodes")
}

func TestScenario_Validate_AccumulatesKinematicsProblems(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{ID: "a"}))
	require.NoError(t, n.Finalize())

	scn := &Scenario{Network: n, Kinematics: KinematicsConfig{VMin: 10, VMax: 5, TSim: -1}}
	err := scn.Validate()
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(ve.Problems), 2)
}

func TestRouterCacheSizeOrDefault(t *testing.T) {
	assert.Equal(t, DefaultRouteCacheSize, routerCacheSizeOrDefault(0))
	assert.Equal(t, DefaultRouteCacheSize, routerCacheSizeOrDefault(-5))
	assert.Equal(t, 128, routerCacheSizeOrDefault(128))
}
