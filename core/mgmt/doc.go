// Package mgmt dispatches management invocations to a cluster of identical
// server nodes that expose a reflective management interface: named
// operations on named components, addressed by a hierarchical
// [ObjectName].
//
// # Architecture
//
// The dispatcher composes four pieces:
//
//   - [NodeSet]: the mutable, deduplicated registry of cluster nodes
//   - [Transport]: an ordered, extensible list of protocols that build
//     endpoint locators from a node address
//   - [Dialer]: turns an endpoint locator into a live [Connection]
//   - [Actuator]: negotiates connections, locates components and invokes
//     methods
//
// # Invocation strategies
//
// Three strategies with distinct failure contracts:
//
//   - [Actuator.InvokeInNode]: single target, precise failure kinds
//   - [Actuator.InvokeOnceInAnyNode]: first success among registered
//     nodes wins; per-node causes are collapsed
//   - [Actuator.InvokeInAllNodes]: fan-out to every node, one outcome per
//     node, failures recorded as the [ErrInvoking] sentinel
//
// # Usage
//
// Create an actuator with a dialer backend and register nodes:
//
//	act, err := mgmt.New(mgmt.Options{Dialer: dialer})
//	act.AddNode(mgmt.Node{Host: "h1", Port: "9999"})
//
//	out, err := act.InvokeOnceInAnyNode(ctx, mgmt.Invocation{
//	    Domain:    "org.cache",
//	    CacheName: "myCache",
//	    Component: "Stats",
//	    Method:    "GetHits",
//	    Args:      mgmt.EmptyArgs,
//	    Signature: mgmt.EmptySignature,
//	})
//
// Connection negotiation tries each registered transport in registration
// order; the built-in [RMITransport] and [RemotingTransport] are
// registered by default and more can be added with
// [Actuator.RegisterTransport].
//
// # Server side
//
// [ObjectRegistry] hosts the manageable objects a node exposes: plain Go
// values registered under an ObjectName, their exported methods invokable
// by name and positional type signature. Transport backends (adapters/nats,
// or the in-process [MemoryDialer]) serve a registry to remote actuators.
//
// # Concurrency
//
// The actuator is a synchronous, blocking client with no threading model
// of its own; concurrency exists only at the boundary. Multi-node
// strategies copy the membership under the registry lock and release the
// lock before dispatching, so registry mutations concurrent with a
// dispatch are atomic but not reflected in that dispatch's result.
// Connections are opened per attempt and discarded; nothing is pooled.
// No timeout is imposed by this layer: pass a context with a deadline, or
// use a transport that enforces its own.
package mgmt
