package mgmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/mgmt-go/ports/kv"
)

func TestActuator_SaveLoadNodes(t *testing.T) {
	store := kv.NewMemStore()

	a, _ := newTestActuator(t, Options{})
	a.AddNode(Node{Host: "h1", Port: "9999", Username: "admin", Password: "secret"})
	a.AddNode(Node{Host: "h2", Port: "9999"})
	require.NoError(t, a.SaveNodes(t.Context(), store, "cluster/prod"))

	b, _ := newTestActuator(t, Options{})
	require.NoError(t, b.LoadNodes(t.Context(), store, "cluster/prod"))
	require.Equal(t, a.Nodes(), b.Nodes())

	// loading twice stays deduplicated
	require.NoError(t, b.LoadNodes(t.Context(), store, "cluster/prod"))
	require.Len(t, b.Nodes(), 2)
}

func TestActuator_LoadNodes_MissingKey(t *testing.T) {
	a, _ := newTestActuator(t, Options{})
	require.NoError(t, a.LoadNodes(t.Context(), kv.NewMemStore(), "no-such-key"))
	require.Empty(t, a.Nodes())
}
