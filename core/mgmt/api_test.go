package mgmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dataPlacementManager struct {
	requests int
	degree   int
}

func (m *dataPlacementManager) DataPlacementRequest() { m.requests++ }

func (m *dataPlacementManager) SetReplicationDegree(degree int) { m.degree = degree }

type replicationManager struct {
	protocol string
	force    bool
	abort    bool
}

func (m *replicationManager) SwitchTo(protocolID string, forceStop, abortOnStop bool) {
	m.protocol = protocolID
	m.force = forceStop
	m.abort = abortOnStop
}

func TestActuator_Triggers(t *testing.T) {
	dpm := &dataPlacementManager{}
	rrm := &replicationManager{}

	reg := NewObjectRegistry()
	require.NoError(t, reg.Register(CacheObjectName("org.cache", "myCache", "DataPlacementManager"), dpm))
	require.NoError(t, reg.Register(CacheObjectName("org.cache", "myCache", "ReconfigurableReplicationManager"), rrm))

	a, d := newTestActuator(t, Options{})
	d.Serve("h1", "9999", reg)
	a.AddNode(Node{Host: "h1", Port: "9999"})

	require.NoError(t, a.TriggerDataPlacement(t.Context(), "org.cache", "myCache"))
	require.Equal(t, 1, dpm.requests)

	require.NoError(t, a.SwitchReplicationProtocol(t.Context(), "org.cache", "myCache", "TwoPC", true, false))
	require.Equal(t, "TwoPC", rrm.protocol)
	require.True(t, rrm.force)
	require.False(t, rrm.abort)

	require.NoError(t, a.SetReplicationDegree(t.Context(), "org.cache", "myCache", 3))
	require.Equal(t, 3, dpm.degree)
}

func TestActuator_Triggers_NoServingNode(t *testing.T) {
	a, _ := newTestActuator(t, Options{})
	a.AddNode(Node{Host: "h1", Port: "9999"})

	err := a.TriggerDataPlacement(t.Context(), "org.cache", "myCache")
	require.ErrorIs(t, err, ErrInvocationFailed)
}
