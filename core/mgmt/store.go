package mgmt

import (
	"context"
	"errors"

	"github.com/codewandler/mgmt-go/ports/kv"
)

// SaveNodes persists the current node membership under key.
func (a *Actuator) SaveNodes(ctx context.Context, store kv.Store, key string) error {
	return kv.Put(ctx, store, key, a.Nodes())
}

// LoadNodes adds every node persisted under key to the registry. A missing
// key is not an error; existing registrations are kept (Add is
// idempotent).
func (a *Actuator) LoadNodes(ctx context.Context, store kv.Store, key string) error {
	nodes, err := kv.Get[[]Node](ctx, store, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, n := range nodes {
		a.AddNode(n)
	}
	return nil
}
