package mgmt

import (
	"context"
	"fmt"
	"sync"

	"github.com/codewandler/mgmt-go/core/ds"
	"github.com/codewandler/mgmt-go/internal/reflector"
)

// ObjectRegistry is the namespace of manageable objects a node exposes.
// Plain Go values are registered under an [ObjectName]; their exported
// methods become invokable by (method name, positional type signature).
// Transport backends serve a registry to remote actuators.
type ObjectRegistry struct {
	mu      sync.RWMutex
	keys    *ds.StringSet
	objects map[string]*managedObject
}

type managedObject struct {
	name    ObjectName
	methods *reflector.MethodSet
}

func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{
		keys:    ds.NewStringSet(),
		objects: make(map[string]*managedObject),
	}
}

// Register exposes target under name. Registering a name twice is an
// error.
func (r *ObjectRegistry) Register(name ObjectName, target any) error {
	methods, err := reflector.MethodsOf(target)
	if err != nil {
		return fmt.Errorf("mgmt: register %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := name.String()
	if !r.keys.Add(key) {
		return fmt.Errorf("mgmt: object %s already registered", key)
	}
	r.objects[key] = &managedObject{name: name, methods: methods}
	return nil
}

// Names enumerates every registered object name, in registration order.
func (r *ObjectRegistry) Names() []ObjectName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ObjectName, 0, r.keys.Len())
	r.keys.ForEach(func(key string) {
		out = append(out, r.objects[key].name)
	})
	return out
}

// Invoke calls method on the object registered under name.
func (r *ObjectRegistry) Invoke(ctx context.Context, name ObjectName, method string, args []any, signature []string) (any, error) {
	r.mu.RLock()
	obj := r.objects[name.String()]
	r.mu.RUnlock()

	if obj == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return obj.methods.Call(ctx, method, args, signature)
}
