package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/mgmt-go/core/mgmt"
)

func TestNewActuatorMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewActuatorMetrics(reg)

	require.NotNil(t, m)

	// Connection negotiation
	timer := m.ConnectDuration("rmi")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.ConnectCompleted("rmi", true)
	m.ConnectCompleted("remoting", false)

	// Invocation strategies
	timer = m.InvokeDuration(mgmt.StrategyAny)
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.InvokeCompleted(mgmt.StrategyNode, true)
	m.InvokeCompleted(mgmt.StrategyAll, false)

	// Registry size
	m.NodesRegistered(3)

	// Verify metrics were registered
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["mgmt_connect_duration_seconds"])
	assert.True(t, names["mgmt_connects_total"])
	assert.True(t, names["mgmt_invocation_duration_seconds"])
	assert.True(t, names["mgmt_invocations_total"])
	assert.True(t, names["mgmt_nodes_registered"])
}

func TestBoolToStr(t *testing.T) {
	assert.Equal(t, "true", boolToStr(true))
	assert.Equal(t, "false", boolToStr(false))
}
