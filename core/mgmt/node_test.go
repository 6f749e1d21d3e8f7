package mgmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeSet_AddIdempotent(t *testing.T) {
	s := NewNodeSet()

	s.Add(Node{Host: "h1", Port: "9999"})
	s.Add(Node{Host: "h1", Port: "9999"})
	require.Equal(t, 1, s.Len())

	// same address, different credentials: still the same node
	s.Add(Node{Host: "h1", Port: "9999", Username: "admin", Password: "secret"})
	require.Equal(t, 1, s.Len())

	s.Add(Node{Host: "h1", Port: "9998"})
	s.Add(Node{Host: "h2", Port: "9999"})
	require.Equal(t, 3, s.Len())
}

func TestNodeSet_RemoveByHostPort(t *testing.T) {
	s := NewNodeSet()
	s.Add(Node{Host: "h1", Port: "9999"})
	s.Add(Node{Host: "h1", Port: "9998"})
	s.Add(Node{Host: "h2", Port: "9999"})

	// empty port is a no-op
	s.RemoveByHostPort("h1", "")
	require.Equal(t, 3, s.Len())

	// absent address is a no-op
	s.RemoveByHostPort("h3", "9999")
	require.Equal(t, 3, s.Len())

	s.RemoveByHostPort("h1", "9999")
	require.Equal(t, 2, s.Len())
	require.Equal(t, []Node{
		{Host: "h1", Port: "9998"},
		{Host: "h2", Port: "9999"},
	}, s.Snapshot())
}

func TestNodeSet_RemoveAllByHost(t *testing.T) {
	s := NewNodeSet()
	s.Add(Node{Host: "h1", Port: "9999"})
	s.Add(Node{Host: "h1", Port: "9998"})
	s.Add(Node{Host: "h2", Port: "9999"})

	s.RemoveAllByHost("h1")
	require.Equal(t, []Node{{Host: "h2", Port: "9999"}}, s.Snapshot())
}

func TestNodeSet_SnapshotIsCopy(t *testing.T) {
	s := NewNodeSet()
	s.Add(Node{Host: "h1", Port: "9999"})

	snap := s.Snapshot()
	s.Add(Node{Host: "h2", Port: "9999"})

	require.Len(t, snap, 1)
	require.Equal(t, 2, s.Len())
}
