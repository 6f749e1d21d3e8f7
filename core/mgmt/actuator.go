package mgmt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type Options struct {
	Log *slog.Logger // Log for diagnostics (optional)

	// Dialer turns endpoint locators into live connections. Required.
	Dialer Dialer

	// Transports is the initial protocol trial order. When nil, the two
	// built-in protocols are registered: [RMITransport] then
	// [RemotingTransport].
	Transports []Transport

	Metrics ActuatorMetrics
}

// Actuator dispatches management invocations to a cluster of nodes. It is
// a synchronous, blocking client: each call negotiates a fresh connection,
// locates the target component and invokes it. Safe for concurrent use;
// the node and transport registries may be mutated while dispatches are in
// flight.
type Actuator struct {
	log     *slog.Logger
	dialer  Dialer
	metrics ActuatorMetrics
	nodes   *NodeSet

	tmu        sync.Mutex
	transports []Transport
}

func New(opts Options) (*Actuator, error) {
	if opts.Dialer == nil {
		return nil, fmt.Errorf("mgmt: Options.Dialer is required")
	}

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NopActuatorMetrics()
	}

	transports := opts.Transports
	if transports == nil {
		transports = []Transport{RMITransport{}, RemotingTransport{}}
	}

	return &Actuator{
		log:        log,
		dialer:     opts.Dialer,
		metrics:    metrics,
		nodes:      NewNodeSet(),
		transports: transports,
	}, nil
}

// RegisterTransport appends t to the trial order. Nil is ignored. The same
// transport may be registered twice; it will simply be tried twice.
func (a *Actuator) RegisterTransport(t Transport) {
	if t == nil {
		return
	}
	a.tmu.Lock()
	defer a.tmu.Unlock()
	a.transports = append(a.transports, t)
}

func (a *Actuator) transportSnapshot() []Transport {
	a.tmu.Lock()
	defer a.tmu.Unlock()
	out := make([]Transport, len(a.transports))
	copy(out, a.transports)
	return out
}

// AddNode registers a cluster node. Idempotent per (host, port).
func (a *Actuator) AddNode(node Node) {
	a.nodes.Add(node)
	a.metrics.NodesRegistered(a.nodes.Len())
}

// RemoveNodeByHostPort removes at most one node with exactly matching host
// and port.
func (a *Actuator) RemoveNodeByHostPort(host, port string) {
	a.nodes.RemoveByHostPort(host, port)
	a.metrics.NodesRegistered(a.nodes.Len())
}

// RemoveNodesByHost removes every node with the given host.
func (a *Actuator) RemoveNodesByHost(host string) {
	a.nodes.RemoveAllByHost(host)
	a.metrics.NodesRegistered(a.nodes.Len())
}

// Nodes returns a point-in-time copy of the registered membership.
func (a *Actuator) Nodes() []Node {
	return a.nodes.Snapshot()
}

// Invocation describes one management operation: which component to locate
// and which method to call on it. Args and Signature are positionally
// correlated and must be equal length; a mismatch is not validated here
// and surfaces as a remote invocation failure.
type Invocation struct {
	Domain    string
	CacheName string
	Component string
	Method    string
	Args      []any
	Signature []string
}

// Conveniences for zero-argument operations.
var (
	EmptyArgs      = []any{}
	EmptySignature = []string{}
)

func (inv Invocation) target() string {
	return inv.Component + "." + inv.Method
}

// connect negotiates a connection to node, trying every registered
// transport in registration order. Per-transport failures are swallowed
// (debug-logged) and the next transport is tried; the first transport that
// both builds an endpoint and dials successfully wins. Trials are strictly
// sequential: a hung transport blocks the rest, and no timeout is imposed
// here.
func (a *Actuator) connect(ctx context.Context, node Node) (Connection, error) {
	transports := a.transportSnapshot()
	if len(transports) == 0 {
		return nil, ErrNoTransportRegistered
	}

	env := ConnectEnv{}
	if node.Username != "" {
		env.Credentials = &Credentials{Username: node.Username, Password: node.Password}
	}

	for _, tr := range transports {
		conn, err := a.tryTransport(ctx, tr, node, env)
		if err != nil {
			a.log.Debug("transport attempt failed",
				slog.String("transport", tr.Name()),
				slog.String("node", node.Addr()),
				slog.Any("error", err),
			)
			continue
		}
		return conn, nil
	}
	return nil, fmt.Errorf("%w: cannot connect to %s", ErrConnectionFailed, node.Addr())
}

func (a *Actuator) tryTransport(ctx context.Context, tr Transport, node Node, env ConnectEnv) (conn Connection, err error) {
	defer a.metrics.ConnectDuration(tr.Name()).ObserveDuration()
	defer func() { a.metrics.ConnectCompleted(tr.Name(), err == nil) }()

	endpoint, err := tr.Endpoint(node.Host, node.Port)
	if err != nil {
		return nil, err
	}
	return a.dialer.Dial(ctx, endpoint, env)
}

// locate scans every object name the connection exposes and returns the
// first one whose domain matches and whose key properties satisfy
// type=Cache, name=<cache>, component=<component>. When more than one
// object qualifies, the pick is whichever the enumeration surfaces first;
// no tie-break is defined.
func (a *Actuator) locate(ctx context.Context, conn Connection, inv Invocation) (ObjectName, error) {
	names, err := conn.QueryNames(ctx)
	if err != nil {
		return ObjectName{}, fmt.Errorf("%w: query names: %w", ErrConnectionFailed, err)
	}
	for _, name := range names {
		if name.Domain != inv.Domain {
			continue
		}
		if name.KeyProperty("type") == "Cache" &&
			name.KeyProperty("name") == inv.CacheName &&
			name.KeyProperty("component") == inv.Component {
			return name, nil
		}
	}
	return ObjectName{}, fmt.Errorf("%w: %s/%s/%s", ErrComponentNotFound, inv.Domain, inv.CacheName, inv.Component)
}

// attempt is one full negotiate+locate+invoke round against a single node.
// The connection lives for exactly this attempt.
func (a *Actuator) attempt(ctx context.Context, node Node, inv Invocation) (any, error) {
	conn, err := a.connect(ctx, node)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	name, err := a.locate(ctx, conn, inv)
	if err != nil {
		return nil, err
	}

	out, err := conn.Invoke(ctx, name, inv.Method, inv.Args, inv.Signature)
	if err != nil {
		// Remote-side not-found and transport errors keep their kind; every
		// other remote failure is an invocation failure.
		if errors.Is(err, ErrComponentNotFound) || errors.Is(err, ErrConnectionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvocationFailed, inv.target(), err)
	}
	return out, nil
}

// InvokeInNode invokes inv on exactly one node, with no fallback.
// It fails with [ErrNoTransportRegistered], [ErrConnectionFailed] or
// [ErrComponentNotFound] for the corresponding stage; a failure of the
// remote call itself is reported as [ErrInvocationFailed].
func (a *Actuator) InvokeInNode(ctx context.Context, node Node, inv Invocation) (out any, err error) {
	defer a.metrics.InvokeDuration(StrategyNode).ObserveDuration()
	defer func() { a.metrics.InvokeCompleted(StrategyNode, err == nil) }()

	return a.attempt(ctx, node, inv)
}

// InvokeOnceInAnyNode invokes inv against registered nodes in registration
// order until one services it, and returns that node's payload. A failure
// at any stage for a given node means "try the next node"; causes are
// collected for diagnostics (debug log) but not surfaced. When every node
// fails, or no node is registered, it fails with a generic
// [ErrInvocationFailed].
//
// The membership is copied before dispatch: nodes added or removed while
// the iteration runs are not considered.
func (a *Actuator) InvokeOnceInAnyNode(ctx context.Context, inv Invocation) (out any, err error) {
	defer a.metrics.InvokeDuration(StrategyAny).ObserveDuration()
	defer func() { a.metrics.InvokeCompleted(StrategyAny, err == nil) }()

	var attempts *multierror.Error
	for _, node := range a.nodes.Snapshot() {
		out, err := a.attempt(ctx, node, inv)
		if err == nil {
			return out, nil
		}
		attempts = multierror.Append(attempts, fmt.Errorf("%s: %w", node.Addr(), err))
	}

	a.log.Debug("no node serviced the invocation",
		slog.String("target", inv.target()),
		slog.Any("attempts", attempts.ErrorOrNil()),
	)
	return nil, fmt.Errorf("%w: no node could service %s", ErrInvocationFailed, inv.target())
}

// InvokeInAllNodes invokes inv on every registered node and returns one
// outcome per node: the payload on success, the [ErrInvoking] sentinel on
// any failure. The only error it returns itself is
// [ErrNoTransportRegistered], checked once before any node is contacted.
//
// The membership is copied before dispatch: the result map holds exactly
// the nodes registered at call time, and concurrent mutations are not
// reflected in it.
func (a *Actuator) InvokeInAllNodes(ctx context.Context, inv Invocation) (res map[Node]any, err error) {
	defer a.metrics.InvokeDuration(StrategyAll).ObserveDuration()
	defer func() { a.metrics.InvokeCompleted(StrategyAll, err == nil) }()

	a.tmu.Lock()
	noTransport := len(a.transports) == 0
	a.tmu.Unlock()
	if noTransport {
		return nil, ErrNoTransportRegistered
	}

	nodes := a.nodes.Snapshot()
	results := make(map[Node]any, len(nodes))
	for _, node := range nodes {
		out, err := a.attempt(ctx, node, inv)
		if err != nil {
			a.log.Debug("fan-out attempt failed",
				slog.String("target", inv.target()),
				slog.String("node", node.Addr()),
				slog.Any("error", err),
			)
			results[node] = ErrInvoking
			continue
		}
		results[node] = out
	}
	return results, nil
}
