package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/mgmt-go/core/mgmt"
)

type DialerConfig struct {
	Connect       Connector    // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	Log           *slog.Logger // Log for diagnostics (optional)
	SubjectPrefix string       // Must match the servers' prefix.
}

// Dialer implements mgmt.Dialer over NATS request/reply. The endpoint's
// authority (host:port) selects the target subject; the scheme is
// irrelevant, so one Dialer can serve every registered transport.
type Dialer struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	log     *slog.Logger
	prefix  string

	closed atomic.Bool
}

func NewDialer(cfg DialerConfig) (*Dialer, error) {
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Dialer{
		nc:      nc,
		closeNc: closeNc,
		log:     log.With(slog.String("dialer", "nats")),
		prefix:  cfg.SubjectPrefix,
	}, nil
}

// Dial verifies the target node answers (ping) and returns a connection
// bound to its subject. The connection shares the dialer's NATS
// connection; Close releases nothing, per the single-invocation scope of
// management connections.
func (d *Dialer) Dial(ctx context.Context, endpoint string, env mgmt.ConnectEnv) (mgmt.Connection, error) {
	if d.closed.Load() {
		return nil, mgmt.ErrDialerClosed
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("nats: parse endpoint %q: %w", endpoint, err)
	}
	host, port := u.Hostname(), u.Port()
	if host == "" || port == "" {
		return nil, fmt.Errorf("nats: endpoint %q has no host:port", endpoint)
	}

	conn := &connection{
		d:       d,
		subject: subjectFor(d.prefix, host, port),
		env:     env,
	}
	if _, err := conn.request(ctx, requestFrame{Op: opPing}); err != nil {
		return nil, fmt.Errorf("nats: ping %s: %w", u.Host, err)
	}
	return conn, nil
}

func (d *Dialer) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	if d.nc != nil {
		d.closeNc()
	}
	return nil
}

/* ---------------------- connection ---------------------- */

type connection struct {
	d       *Dialer
	subject string
	env     mgmt.ConnectEnv
}

func (c *connection) request(ctx context.Context, req requestFrame) ([]byte, error) {
	if creds := c.env.Credentials; creds != nil {
		req.Username = creds.Username
		req.Password = creds.Password
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	msg, err := c.d.nc.RequestWithContext(ctx, c.subject, payload)
	if err != nil {
		return nil, err
	}

	var rf responseFrame
	if err := json.Unmarshal(msg.Data, &rf); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rf.Err != "" {
		if rf.Code == codeComponentNotFound {
			return nil, fmt.Errorf("%w: %s", mgmt.ErrComponentNotFound, rf.Err)
		}
		return nil, errors.New(rf.Err)
	}
	return rf.Data, nil
}

func (c *connection) QueryNames(ctx context.Context) ([]mgmt.ObjectName, error) {
	data, err := c.request(ctx, requestFrame{Op: opQuery})
	if err != nil {
		return nil, err
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	names := make([]mgmt.ObjectName, 0, len(raw))
	for _, s := range raw {
		n, err := mgmt.ParseObjectName(s)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

func (c *connection) Invoke(ctx context.Context, name mgmt.ObjectName, method string, args []any, signature []string) (any, error) {
	data, err := c.request(ctx, requestFrame{
		Op:        opInvoke,
		Name:      name.String(),
		Method:    method,
		Args:      args,
		Signature: signature,
	})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

func (c *connection) Close() error { return nil }

var _ mgmt.Dialer = (*Dialer)(nil)
var _ mgmt.Connection = (*connection)(nil)
