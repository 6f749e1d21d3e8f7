package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/mgmt-go/core/metrics"
	"github.com/codewandler/mgmt-go/core/mgmt"
)

// actuatorMetrics implements mgmt.ActuatorMetrics using Prometheus.
type actuatorMetrics struct {
	connectDuration *prometheus.HistogramVec
	connectsTotal   *prometheus.CounterVec
	invokeDuration  *prometheus.HistogramVec
	invokesTotal    *prometheus.CounterVec
	nodesRegistered prometheus.Gauge
}

// NewActuatorMetrics creates a new Prometheus implementation of
// ActuatorMetrics.
func NewActuatorMetrics(reg prometheus.Registerer) mgmt.ActuatorMetrics {
	m := &actuatorMetrics{
		connectDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mgmt_connect_duration_seconds",
			Help:    "Transport connection attempt latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"transport"}),

		connectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mgmt_connects_total",
			Help: "Total number of transport connection attempts",
		}, []string{"transport", "success"}),

		invokeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mgmt_invocation_duration_seconds",
			Help:    "Invocation latency per strategy in seconds",
			Buckets: defaultBuckets,
		}, []string{"strategy"}),

		invokesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mgmt_invocations_total",
			Help: "Total number of invocations per strategy",
		}, []string{"strategy", "success"}),

		nodesRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mgmt_nodes_registered",
			Help: "Number of nodes in the registry",
		}),
	}

	reg.MustRegister(
		m.connectDuration,
		m.connectsTotal,
		m.invokeDuration,
		m.invokesTotal,
		m.nodesRegistered,
	)

	return m
}

func (m *actuatorMetrics) ConnectDuration(transport string) metrics.Timer {
	return newTimer(m.connectDuration.WithLabelValues(transport))
}

func (m *actuatorMetrics) ConnectCompleted(transport string, success bool) {
	m.connectsTotal.WithLabelValues(transport, boolToStr(success)).Inc()
}

func (m *actuatorMetrics) InvokeDuration(strategy string) metrics.Timer {
	return newTimer(m.invokeDuration.WithLabelValues(strategy))
}

func (m *actuatorMetrics) InvokeCompleted(strategy string, success bool) {
	m.invokesTotal.WithLabelValues(strategy, boolToStr(success)).Inc()
}

func (m *actuatorMetrics) NodesRegistered(count int) {
	m.nodesRegistered.Set(float64(count))
}

var _ mgmt.ActuatorMetrics = (*actuatorMetrics)(nil)
