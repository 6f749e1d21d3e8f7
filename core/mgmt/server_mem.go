package mgmt

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
)

// MemoryDialer serves object registries in-process, one per host:port
// address, and dials them regardless of endpoint scheme. It is the
// loopback counterpart of a real transport backend and is what the tests
// and examples run against.
type MemoryDialer struct {
	mu  sync.RWMutex
	log *slog.Logger

	closed bool

	// host:port -> served registry
	servers map[string]*memServer
}

type memServer struct {
	reg   *ObjectRegistry
	creds *Credentials
}

func NewMemoryDialer() *MemoryDialer {
	return &MemoryDialer{
		log:     slog.New(slog.DiscardHandler),
		servers: make(map[string]*memServer),
	}
}

func (d *MemoryDialer) WithLog(log *slog.Logger) *MemoryDialer {
	d.log = log.With(slog.String("dialer", "mem"))
	return d
}

type ServeOption func(*memServer)

// WithCredentials makes the served address reject dials whose credentials
// do not match.
func WithCredentials(username, password string) ServeOption {
	return func(s *memServer) {
		s.creds = &Credentials{Username: username, Password: password}
	}
}

// Serve exposes reg at host:port. A later Serve for the same address
// replaces the earlier registry.
func (d *MemoryDialer) Serve(host, port string, reg *ObjectRegistry, opts ...ServeOption) {
	s := &memServer{reg: reg}
	for _, opt := range opts {
		opt(s)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	addr := host + ":" + port
	d.servers[addr] = s
	d.log.Debug("serving", slog.String("addr", addr))
}

func (d *MemoryDialer) Dial(_ context.Context, endpoint string, env ConnectEnv) (Connection, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("mem: parse endpoint %q: %w", endpoint, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrDialerClosed
	}
	s := d.servers[u.Host]
	if s == nil {
		return nil, fmt.Errorf("mem: no server at %s", u.Host)
	}
	if s.creds != nil {
		if env.Credentials == nil ||
			env.Credentials.Username != s.creds.Username ||
			env.Credentials.Password != s.creds.Password {
			return nil, fmt.Errorf("mem: %s: bad credentials", u.Host)
		}
	}
	return &memConnection{reg: s.reg}, nil
}

func (d *MemoryDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	for addr := range d.servers {
		delete(d.servers, addr)
	}
	d.log.Debug("closed")
	return nil
}

// === internals ===

type memConnection struct {
	reg *ObjectRegistry
}

func (c *memConnection) QueryNames(_ context.Context) ([]ObjectName, error) {
	return c.reg.Names(), nil
}

func (c *memConnection) Invoke(ctx context.Context, name ObjectName, method string, args []any, signature []string) (any, error) {
	return c.reg.Invoke(ctx, name, method, args, signature)
}

func (c *memConnection) Close() error { return nil }

var _ Dialer = (*MemoryDialer)(nil)
var _ Connection = (*memConnection)(nil)
