package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CalculationResultOK    = "ok"
	CalculationResultError = "error"
)

// CalculationMetrics exports calculation throughput and latency to Prometheus.
type CalculationMetrics struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lineItems    prometheus.Histogram
}

var (
	calculationMetricsOnce sync.Once
	calculationMetrics     *CalculationMetrics
)

// Calculation returns the singleton calculation metrics registered on the
// default registerer.
func Calculation(cfg Config) *CalculationMetrics {
	calculationMetricsOnce.Do(func() {
		calculationMetrics = newCalculationMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return calculationMetrics
}

// NewCalculationMetrics registers calculation metrics on the given registerer.
func NewCalculationMetrics(registerer prometheus.Registerer, cfg Config) *CalculationMetrics {
	return newCalculationMetrics(registerer, cfg)
}

func newCalculationMetrics(registerer prometheus.Registerer, cfg Config) *CalculationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicesum"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "invoicesum_calculations_total",
		Help:        "Document calculations by kind and result.",
		ConstLabels: constLabels,
	}, []string{"kind", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "invoicesum_calculation_duration_seconds",
		Help:        "Document calculation latency.",
		Buckets:     []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		ConstLabels: constLabels,
	}, []string{"kind"})
	lineItems := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "invoicesum_calculation_line_items",
		Help:        "Line items per calculated document.",
		Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})

	registerer.MustRegister(calculations, duration, lineItems)

	return &CalculationMetrics{
		calculations: calculations,
		duration:     duration,
		lineItems:    lineItems,
	}
}

// ObserveCalculation records one finished calculation.
func (m *CalculationMetrics) ObserveCalculation(kind string, lineItems int, elapsed time.Duration) {
	if m == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.calculations.WithLabelValues(kind, CalculationResultOK).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.lineItems.Observe(float64(lineItems))
}

// IncCalculationError records a rejected calculation.
func (m *CalculationMetrics) IncCalculationError(kind string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(normalizeLabel(kind), CalculationResultError).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
