package mgmt

import "github.com/codewandler/mgmt-go/core/metrics"

// Invocation strategy labels used by [ActuatorMetrics].
const (
	StrategyNode = "node"
	StrategyAny  = "any"
	StrategyAll  = "all"
)

// ActuatorMetrics defines the metrics interface for the dispatcher.
// All methods are thread-safe.
type ActuatorMetrics interface {
	// Connection negotiation, one observation per transport attempt.
	ConnectDuration(transport string) metrics.Timer
	ConnectCompleted(transport string, success bool)

	// Invocation strategies: node, any, all.
	InvokeDuration(strategy string) metrics.Timer
	InvokeCompleted(strategy string, success bool)

	// Registry size after each mutation.
	NodesRegistered(count int)
}

// nopActuatorMetrics is a no-op implementation of ActuatorMetrics.
type nopActuatorMetrics struct{}

func (nopActuatorMetrics) ConnectDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopActuatorMetrics) ConnectCompleted(string, bool)        {}

func (nopActuatorMetrics) InvokeDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopActuatorMetrics) InvokeCompleted(string, bool)        {}

func (nopActuatorMetrics) NodesRegistered(int) {}

// NopActuatorMetrics returns a no-op ActuatorMetrics.
func NopActuatorMetrics() ActuatorMetrics { return nopActuatorMetrics{} }
