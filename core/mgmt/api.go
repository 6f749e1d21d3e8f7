package mgmt

import "context"

// Convenience triggers for well-known cache components. Each is a fixed
// (component, method, signature) tuple dispatched first-success-wins via
// [Actuator.InvokeOnceInAnyNode].

// TriggerDataPlacement triggers the data placement optimizer for the
// cache.
func (a *Actuator) TriggerDataPlacement(ctx context.Context, domain, cacheName string) error {
	_, err := a.InvokeOnceInAnyNode(ctx, Invocation{
		Domain:    domain,
		CacheName: cacheName,
		Component: "DataPlacementManager",
		Method:    "DataPlacementRequest",
		Args:      EmptyArgs,
		Signature: EmptySignature,
	})
	return err
}

// SwitchReplicationProtocol switches the cache to a new replication
// protocol. forceStop selects the stop-the-world model; abortOnStop (only
// meaningful with forceStop) aborts running transactions instead of
// waiting for them.
func (a *Actuator) SwitchReplicationProtocol(ctx context.Context, domain, cacheName, protocolID string, forceStop, abortOnStop bool) error {
	_, err := a.InvokeOnceInAnyNode(ctx, Invocation{
		Domain:    domain,
		CacheName: cacheName,
		Component: "ReconfigurableReplicationManager",
		Method:    "SwitchTo",
		Args:      []any{protocolID, forceStop, abortOnStop},
		Signature: []string{"string", "bool", "bool"},
	})
	return err
}

// SetReplicationDegree changes the cache's replication degree.
func (a *Actuator) SetReplicationDegree(ctx context.Context, domain, cacheName string, degree int) error {
	_, err := a.InvokeOnceInAnyNode(ctx, Invocation{
		Domain:    domain,
		CacheName: cacheName,
		Component: "DataPlacementManager",
		Method:    "SetReplicationDegree",
		Args:      []any{degree},
		Signature: []string{"int"},
	})
	return err
}
