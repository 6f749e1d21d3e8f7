package mgmt

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
)

// Credentials is the opaque credential pair passed to whichever transport
// accepts it. The actuator attaches it to a dial only when the node's
// username is non-empty.
type Credentials struct {
	Username string
	Password string
}

// ConnectEnv carries per-dial environment data.
type ConnectEnv struct {
	Credentials *Credentials
}

// Transport builds a connection endpoint locator for a node address. It is
// the pluggable protocol unit: transports are tried in registration order
// until one yields a live connection.
type Transport interface {
	// Name identifies the protocol for logging and metrics.
	Name() string
	// Endpoint builds the endpoint locator for host:port.
	Endpoint(host, port string) (string, error)
}

// Connection is a live management session. It is scoped to a single
// invocation: never cached, never shared between concurrent dispatches.
type Connection interface {
	// QueryNames enumerates every object name exposed by the node.
	QueryNames(ctx context.Context) ([]ObjectName, error)
	// Invoke calls method on the named object. Args and signature are
	// positionally correlated.
	Invoke(ctx context.Context, name ObjectName, method string, args []any, signature []string) (any, error)
	Close() error
}

// Dialer turns an endpoint locator into a live management session.
// It is the connector-factory half of the protocol split: transports only
// format endpoints, dialers know how to reach them.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, env ConnectEnv) (Connection, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, endpoint string, env ConnectEnv) (Connection, error)

func (f DialerFunc) Dial(ctx context.Context, endpoint string, env ConnectEnv) (Connection, error) {
	return f(ctx, endpoint, env)
}

func buildEndpoint(scheme, host, port, path string) (string, error) {
	if host == "" || port == "" {
		return "", fmt.Errorf("mgmt: incomplete address %q:%q for %s endpoint", host, port, scheme)
	}
	return scheme + "://" + net.JoinHostPort(host, port) + path, nil
}

// RMITransport is the direct RMI-style protocol. Endpoints look like
// mgmt-rmi://host:port/server. Registered by default.
type RMITransport struct{}

func (RMITransport) Name() string { return "rmi" }

func (RMITransport) Endpoint(host, port string) (string, error) {
	return buildEndpoint("mgmt-rmi", host, port, "/server")
}

// RemotingTransport is the remoting-style protocol. Endpoints look like
// mgmt-remoting://host:port. Registered by default.
type RemotingTransport struct{}

func (RemotingTransport) Name() string { return "remoting" }

func (RemotingTransport) Endpoint(host, port string) (string, error) {
	return buildEndpoint("mgmt-remoting", host, port, "")
}

// DialerMux routes dials to a backend by endpoint scheme, so each
// registered transport's endpoints can be served by a different dialer.
type DialerMux struct {
	mu      sync.RWMutex
	dialers map[string]Dialer
}

func NewDialerMux() *DialerMux {
	return &DialerMux{dialers: make(map[string]Dialer)}
}

// Handle registers d for endpoints with the given URL scheme. A later
// Handle for the same scheme replaces the earlier one.
func (m *DialerMux) Handle(scheme string, d Dialer) *DialerMux {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialers[scheme] = d
	return m
}

func (m *DialerMux) Dial(ctx context.Context, endpoint string, env ConnectEnv) (Connection, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("mgmt: parse endpoint %q: %w", endpoint, err)
	}
	m.mu.RLock()
	d := m.dialers[u.Scheme]
	m.mu.RUnlock()
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	return d.Dial(ctx, endpoint, env)
}

var _ Dialer = (*DialerMux)(nil)
