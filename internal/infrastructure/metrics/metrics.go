// Package metrics expone en Prometheus el resultado y la duración de las operaciones del motor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/domain"
)

var _ inventory.MetricsRecorder = (*Recorder)(nil)

// ResultOK etiqueta de resultado para operaciones confirmadas.
const ResultOK = "ok"

// Recorder colectores de operaciones de inventario.
type Recorder struct {
	// Labels: operation, result (ok | validation | not_found | conflict | system)
	Operations *prometheus.CounterVec
	// Labels: operation
	Duration *prometheus.HistogramVec
}

// NewRecorder registra los colectores en registry (DefaultRegisterer si es nil).
func NewRecorder(registry prometheus.Registerer) *Recorder {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Recorder{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rack_inventory_operations_total",
				Help: "Total de operaciones de inventario por resultado",
			},
			[]string{"operation", "result"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rack_inventory_operation_duration_seconds",
				Help:    "Duración de las transacciones de inventario",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation cuenta la operación con su resultado. Los rechazos previos a la
// transacción llegan con elapsed = 0 y no se registran en el histograma.
func (r *Recorder) ObserveOperation(operation string, err error, elapsed time.Duration) {
	r.Operations.WithLabelValues(operation, Result(err)).Inc()
	if elapsed > 0 {
		r.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// Result traduce un error a la etiqueta de resultado.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	return string(domain.KindOf(err))
}
