// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus.Collector tracking dispatch-engine activity for one
// Peer: in-flight waiters, commands dispatched per direction, timeouts, and
// inbound commands with no matching subscription. Grounded on the exporter package's
// hand-rolled Describe/Collect pattern rather than prometheus's promauto
// helpers, matching how the corpus wires metrics into a library (not a
// standalone binary) that must not force a global registry on its caller.
type Metrics struct {
	inFlight        int64
	commandsSent    uint64
	commandsRecv    uint64
	responsesSent   uint64
	responsesRecv   uint64
	timeouts        uint64
	noSuchCmd       uint64
	serializeErrors uint64

	namespace string
}

// NewMetrics returns a Metrics collector. namespace prefixes every exported
// metric name (e.g. "rpccore"); pass "" to use "rpccore".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rpccore"
	}
	return &Metrics{namespace: namespace}
}

var (
	metricsInFlightDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_requests_in_flight", "Number of requests awaiting a response.", nil, nil)
	}
	metricsCommandsDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_commands_total", "Commands exchanged, by direction.", []string{"direction"}, nil)
	}
	metricsResponsesDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_responses_total", "Responses exchanged, by direction.", []string{"direction"}, nil)
	}
	metricsTimeoutsDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_timeouts_total", "Response waits whose timeout timer expired, including attempts that were retried.", nil, nil)
	}
	metricsNoSuchCmdDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_no_such_cmd_total", "Inbound commands with no matching subscription.", nil, nil)
	}
	metricsSerializeErrDesc = func(ns string) *prometheus.Desc {
		return prometheus.NewDesc(ns+"_serialize_errors_total", "Handler responses that failed to serialize.", nil, nil)
	}
)

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- metricsInFlightDesc(m.namespace)
	ch <- metricsCommandsDesc(m.namespace)
	ch <- metricsResponsesDesc(m.namespace)
	ch <- metricsTimeoutsDesc(m.namespace)
	ch <- metricsNoSuchCmdDesc(m.namespace)
	ch <- metricsSerializeErrDesc(m.namespace)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(metricsInFlightDesc(m.namespace), prometheus.GaugeValue, float64(atomic.LoadInt64(&m.inFlight)))
	ch <- prometheus.MustNewConstMetric(metricsCommandsDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.commandsSent)), "sent")
	ch <- prometheus.MustNewConstMetric(metricsCommandsDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.commandsRecv)), "recv")
	ch <- prometheus.MustNewConstMetric(metricsResponsesDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.responsesSent)), "sent")
	ch <- prometheus.MustNewConstMetric(metricsResponsesDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.responsesRecv)), "recv")
	ch <- prometheus.MustNewConstMetric(metricsTimeoutsDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.timeouts)))
	ch <- prometheus.MustNewConstMetric(metricsNoSuchCmdDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.noSuchCmd)))
	ch <- prometheus.MustNewConstMetric(metricsSerializeErrDesc(m.namespace), prometheus.CounterValue, float64(atomic.LoadUint64(&m.serializeErrors)))
}

func (m *Metrics) onRequestStart()      { atomic.AddInt64(&m.inFlight, 1) }
func (m *Metrics) onRequestEnd()        { atomic.AddInt64(&m.inFlight, -1) }
func (m *Metrics) onCommandSent()       { atomic.AddUint64(&m.commandsSent, 1) }
func (m *Metrics) onCommandRecv()       { atomic.AddUint64(&m.commandsRecv, 1) }
func (m *Metrics) onResponseSent()      { atomic.AddUint64(&m.responsesSent, 1) }
func (m *Metrics) onResponseRecv()      { atomic.AddUint64(&m.responsesRecv, 1) }
func (m *Metrics) onTimeout()           { atomic.AddUint64(&m.timeouts, 1) }
func (m *Metrics) onNoSuchCmd()         { atomic.AddUint64(&m.noSuchCmd, 1) }
func (m *Metrics) onSerializeError()    { atomic.AddUint64(&m.serializeErrors, 1) }
