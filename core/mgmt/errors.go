package mgmt

import "errors"

var (
	// Negotiation errors
	ErrNoTransportRegistered = errors.New("no transport registered")
	ErrConnectionFailed      = errors.New("connection failed")

	// Locator errors
	ErrComponentNotFound = errors.New("component not found")

	// Dispatch errors
	ErrInvocationFailed = errors.New("invocation failed")

	// Dialer errors
	ErrUnknownScheme = errors.New("no dialer for endpoint scheme")
	ErrDialerClosed  = errors.New("dialer closed")
)

// ErrInvoking is the per-node error sentinel recorded by
// [Actuator.InvokeInAllNodes]. It carries no cause; callers can only tell
// that a node failed, not why. Compare with [IsInvokeError].
var ErrInvoking error = errors.New("error invoking")

// IsInvokeError reports whether a fan-out result value is the error
// sentinel rather than a payload.
func IsInvokeError(v any) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, ErrInvoking)
}
