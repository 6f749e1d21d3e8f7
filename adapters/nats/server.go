package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/mgmt-go/core/mgmt"
)

type ServerConfig struct {
	Connect       Connector    // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	Log           *slog.Logger // Log for diagnostics (optional)
	SubjectPrefix string       // SubjectPrefix for node subjects, e.g. "mgmt" -> mgmt.node.<host>.<port>

	// Host and Port form the management address this server answers for.
	Host string
	Port string

	// Registry holds the objects exposed at that address. Required.
	Registry *mgmt.ObjectRegistry

	// Credentials, when set, must be presented by every request.
	Credentials *mgmt.Credentials
}

// Server exposes an object registry at a management address over NATS
// request/reply.
type Server struct {
	nc       *natsgo.Conn
	closeNc  closeFunc
	log      *slog.Logger
	serverID string
	subject  string
	reg      *mgmt.ObjectRegistry
	creds    *mgmt.Credentials

	sub    *natsgo.Subscription
	closed atomic.Bool
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("nats: ServerConfig.Registry is required")
	}
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("nats: ServerConfig.Host and Port are required")
	}

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

	serverID := fmt.Sprintf("mgmt-%s", gonanoid.Must(6))
	return &Server{
		nc:       nc,
		closeNc:  closeNc,
		log:      log.With(slog.String("server", serverID)),
		serverID: serverID,
		subject:  subjectFor(cfg.SubjectPrefix, cfg.Host, cfg.Port),
		reg:      cfg.Registry,
		creds:    cfg.Credentials,
	}, nil
}

// Run subscribes to the server's subject and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("nats: server closed")
	}

	s.log.Info("starting management server", slog.String("subject", s.subject))

	sub, err := s.nc.Subscribe(s.subject, func(msg *natsgo.Msg) {
		s.handleMsg(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", s.subject, err)
	}
	s.sub = sub

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	return nil
}

func (s *Server) handleMsg(ctx context.Context, msg *natsgo.Msg) {
	var req requestFrame
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.log.Error("failed to decode request", slog.Any("error", err))
		return
	}

	resp := s.handleRequest(ctx, req)
	b, _ := json.Marshal(resp)
	if msg.Reply == "" {
		return
	}
	if err := msg.Respond(b); err != nil {
		s.log.Error("failed to publish reply", slog.Any("error", err))
	}
}

func (s *Server) handleRequest(ctx context.Context, req requestFrame) responseFrame {
	if s.creds != nil {
		if req.Username != s.creds.Username || req.Password != s.creds.Password {
			return responseFrame{Err: "bad credentials", Code: codeUnauthorized}
		}
	}

	switch req.Op {
	case opPing:
		return responseFrame{}

	case opQuery:
		names := s.reg.Names()
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, n.String())
		}
		data, _ := json.Marshal(out)
		return responseFrame{Data: data}

	case opInvoke:
		name, err := mgmt.ParseObjectName(req.Name)
		if err != nil {
			return responseFrame{Err: err.Error()}
		}
		result, err := s.reg.Invoke(ctx, name, req.Method, req.Args, req.Signature)
		if err != nil {
			rf := responseFrame{Err: err.Error()}
			if errors.Is(err, mgmt.ErrComponentNotFound) {
				rf.Code = codeComponentNotFound
			}
			s.log.Error("invoke failed",
				slog.String("name", req.Name),
				slog.String("method", req.Method),
				slog.Any("error", err),
			)
			return rf
		}
		data, err := json.Marshal(result)
		if err != nil {
			return responseFrame{Err: fmt.Sprintf("encode result: %s", err)}
		}
		return responseFrame{Data: data}

	default:
		return responseFrame{Err: fmt.Sprintf("unknown op %q", req.Op)}
	}
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.closeNc()
	}
	s.log.Debug("closed")
	return nil
}
