package mgmt

import (
	"net"
	"sync"

	"github.com/codewandler/mgmt-go/core/ds"
)

// Node describes one server instance of the managed cluster. Identity is
// (Host, Port) only: two nodes with the same address but different
// credentials are the same node for set membership.
type Node struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Addr returns "host:port".
func (n Node) Addr() string {
	return net.JoinHostPort(n.Host, n.Port)
}

// NodeSet is the mutable, deduplicated registry of cluster nodes.
// Insertion order is preserved and is the iteration order of dispatch.
// All methods are safe for concurrent use.
type NodeSet struct {
	mu    sync.Mutex
	addrs *ds.StringSet
	nodes map[string]Node // keyed by Addr
}

func NewNodeSet() *NodeSet {
	return &NodeSet{
		addrs: ds.NewStringSet(),
		nodes: make(map[string]Node),
	}
}

// Add inserts node unless a node with the same (host, port) is already
// present. Idempotent.
func (s *NodeSet) Add(node Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addrs.Add(node.Addr()) {
		s.nodes[node.Addr()] = node
	}
}

// RemoveByHostPort removes at most one node with exactly matching host and
// port. A no-op when port is empty or no node matches.
func (s *NodeSet) RemoveByHostPort(host, port string) {
	if port == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := net.JoinHostPort(host, port)
	s.addrs.Remove(addr)
	delete(s.nodes, addr)
}

// RemoveAllByHost removes every node with the given host, regardless of
// port.
func (s *NodeSet) RemoveAllByHost(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addrs.RemoveFunc(func(addr string) bool {
		if s.nodes[addr].Host != host {
			return false
		}
		delete(s.nodes, addr)
		return true
	})
}

// Snapshot returns a point-in-time copy of the membership. Mutations after
// Snapshot returns are not reflected in the copy.
func (s *NodeSet) Snapshot() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, 0, s.addrs.Len())
	s.addrs.ForEach(func(addr string) {
		out = append(out, s.nodes[addr])
	})
	return out
}

// Len returns the current membership size.
func (s *NodeSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addrs.Len()
}
