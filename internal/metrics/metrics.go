// internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the pod's Prometheus metrics. A nil *Collector is a
// valid no-op recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	MessagesSent  *prometheus.CounterVec
	SendErrors    *prometheus.CounterVec
	SensorReads   *prometheus.CounterVec
	ScanDurations prometheus.Histogram

	ActiveSensors prometheus.Gauge
	FusedCount    prometheus.Gauge
}

// New registers the pod metrics against reg, defaulting to the global
// registry when nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	sent, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pod_messages_sent_total",
		Help: "Telemetry messages handed to the transport, labeled by message type.",
	}, []string{"type"}), "pod_messages_sent_total")
	if err != nil {
		return nil, err
	}

	sendErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pod_send_errors_total",
		Help: "Telemetry sends the transport rejected, labeled by message type.",
	}, []string{"type"}), "pod_send_errors_total")
	if err != nil {
		return nil, err
	}

	reads, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pod_sensor_reads_total",
		Help: "Sensor read attempts, labeled by sensor id and outcome.",
	}, []string{"sensor", "outcome"}), "pod_sensor_reads_total")
	if err != nil {
		return nil, err
	}

	scans, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pod_scan_duration_seconds",
		Help:    "Duration of one scan unit, sends excluded.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}), "pod_scan_duration_seconds")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pod_active_sensors",
		Help: "Sensors that initialized and are being scanned.",
	}), "pod_active_sensors")
	if err != nil {
		return nil, err
	}

	fused, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pod_fused_count",
		Help: "Sensors that contributed to the latest fused position.",
	}), "pod_fused_count")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		MessagesSent:  sent,
		SendErrors:    sendErrors,
		SensorReads:   reads,
		ScanDurations: scans,
		ActiveSensors: active,
		FusedCount:    fused,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ---- recorder methods ----

func (c *Collector) ObserveSend(msgType string, err error) {
	if c == nil {
		return
	}
	c.MessagesSent.WithLabelValues(msgType).Inc()
	if err != nil {
		c.SendErrors.WithLabelValues(msgType).Inc()
	}
}

func (c *Collector) ObserveRead(id int, outcome string) {
	if c == nil {
		return
	}
	c.SensorReads.WithLabelValues(strconv.Itoa(id), outcome).Inc()
}

func (c *Collector) ObserveScan(d time.Duration) {
	if c == nil {
		return
	}
	c.ScanDurations.Observe(d.Seconds())
}

func (c *Collector) SetActiveSensors(n int) {
	if c == nil {
		return
	}
	c.ActiveSensors.Set(float64(n))
}

func (c *Collector) SetFusedCount(n int) {
	if c == nil {
		return
	}
	c.FusedCount.Set(float64(n))
}

// ---- registration ----

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metrics: %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metrics: %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metrics: %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
