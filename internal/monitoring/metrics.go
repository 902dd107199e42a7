// Package monitoring exposes Prometheus metrics and a health endpoint for
// the long-running watch process.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ashare_quant_signals_total",
			Help: "Total number of strategy signals emitted",
		},
		[]string{"symbol", "action"},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ashare_quant_current_price",
			Help: "Latest observed close price per symbol",
		},
		[]string{"symbol"},
	)

	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ashare_quant_downloads_total",
			Help: "Total number of symbol download attempts by outcome",
		},
		[]string{"status"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ashare_quant_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(downloadsTotal)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint.
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal counts one strategy signal.
func RecordSignal(symbol, action string) {
	signalsTotal.WithLabelValues(symbol, action).Inc()
}

// UpdatePrice updates the latest close gauge.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordDownload counts one symbol download attempt.
func RecordDownload(status string) {
	downloadsTotal.WithLabelValues(status).Inc()
}

// RecordError counts one error by type.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
