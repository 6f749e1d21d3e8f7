package nats

import "strings"

// Wire frames for the management protocol. Requests and responses are
// JSON; object names travel in their text form.

const (
	opPing   = "ping"
	opQuery  = "query"
	opInvoke = "invoke"
)

type requestFrame struct {
	Op        string   `json:"op"`
	Name      string   `json:"name,omitempty"`
	Method    string   `json:"method,omitempty"`
	Args      []any    `json:"args,omitempty"`
	Signature []string `json:"signature,omitempty"`

	// Credentials, present only when the dialing node carries a username.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Error codes that must keep their failure kind across the wire.
const (
	codeComponentNotFound = "component_not_found"
	codeUnauthorized      = "unauthorized"
)

type responseFrame struct {
	Data []byte `json:"data,omitempty"`
	Err  string `json:"err,omitempty"`
	Code string `json:"code,omitempty"`
}

// subjectFor maps a management address to its request subject. Dots in the
// host would split NATS subject tokens, so they are folded to underscores.
func subjectFor(prefix, host, port string) string {
	if prefix == "" {
		prefix = "mgmt"
	}
	return prefix + ".node." + sanitizeToken(host) + "." + sanitizeToken(port)
}

func sanitizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
