package integration

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/mgmt-go/core/mgmt"
)

type cacheStats struct {
	hits int
}

func (s *cacheStats) GetHits() int { return s.hits }

type dataPlacementManager struct {
	requests int
}

func (m *dataPlacementManager) DataPlacementRequest() { m.requests++ }

func createNode(t *testing.T, d *mgmt.MemoryDialer, host, port string, hits int) *dataPlacementManager {
	dpm := &dataPlacementManager{}

	reg := mgmt.NewObjectRegistry()
	require.NoError(t, reg.Register(mgmt.CacheObjectName("org.cache", "myCache", "Stats"), &cacheStats{hits: hits}))
	require.NoError(t, reg.Register(mgmt.CacheObjectName("org.cache", "myCache", "DataPlacementManager"), dpm))

	d.Serve(host, port, reg)
	return dpm
}

func TestIntegration(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	d := mgmt.CreateMemoryDialer(t)
	dpm1 := createNode(t, d, "h1", "9999", 10)
	dpm2 := createNode(t, d, "h2", "9999", 20)

	a, err := mgmt.New(mgmt.Options{Dialer: d})
	require.NoError(t, err)
	a.AddNode(mgmt.Node{Host: "h1", Port: "9999"})
	a.AddNode(mgmt.Node{Host: "h2", Port: "9999"})
	a.AddNode(mgmt.Node{Host: "h3", Port: "9999"}) // not served

	inv := mgmt.Invocation{
		Domain:    "org.cache",
		CacheName: "myCache",
		Component: "Stats",
		Method:    "GetHits",
		Args:      mgmt.EmptyArgs,
		Signature: mgmt.EmptySignature,
	}

	// single target
	out, err := a.InvokeInNode(t.Context(), mgmt.Node{Host: "h2", Port: "9999"}, inv)
	require.NoError(t, err)
	require.Equal(t, 20, out)

	// first success wins
	out, err = a.InvokeOnceInAnyNode(t.Context(), inv)
	require.NoError(t, err)
	require.Equal(t, 10, out)

	// fan-out: one entry per node, failures as sentinel
	res, err := a.InvokeInAllNodes(t.Context(), inv)
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.Equal(t, 10, res[mgmt.Node{Host: "h1", Port: "9999"}])
	require.Equal(t, 20, res[mgmt.Node{Host: "h2", Port: "9999"}])
	require.True(t, mgmt.IsInvokeError(res[mgmt.Node{Host: "h3", Port: "9999"}]))

	// trigger layer dispatches first-success-wins
	require.NoError(t, a.TriggerDataPlacement(t.Context(), "org.cache", "myCache"))
	require.Equal(t, 1, dpm1.requests+dpm2.requests)

	// membership mutations reflected in later dispatches
	a.RemoveNodesByHost("h3")
	res, err = a.InvokeInAllNodes(t.Context(), inv)
	require.NoError(t, err)
	require.Len(t, res, 2)
}
