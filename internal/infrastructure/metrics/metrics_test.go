package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/metrics"
)

func TestRecorder_CuentaPorResultado(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	rec.ObserveOperation("move_stock", nil, 5*time.Millisecond)
	rec.ObserveOperation("move_stock", nil, 3*time.Millisecond)
	rec.ObserveOperation("move_stock", domain.ErrInsufficientDestinationCapacity, 2*time.Millisecond)
	rec.ObserveOperation("create_placement", domain.ErrInvalidQuantity, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Operations.WithLabelValues("move_stock", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Operations.WithLabelValues("move_stock", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Operations.WithLabelValues("create_placement", "validation")))
	// solo move_stock tiene observaciones de duración
	assert.Equal(t, 1, testutil.CollectAndCount(rec.Duration))
}

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sin error", nil, "ok"},
		{"validación", domain.ErrInvalidRequest, "validation"},
		{"no encontrado", domain.ErrSlotNotFound, "not_found"},
		{"conflicto", domain.ErrInsufficientSourceQuantity, "conflict"},
		{"almacenamiento", &domain.StorageError{Cause: errors.New("conn reset")}, "system"},
		{"desconocido", errors.New("x"), "system"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Result(tt.err))
		})
	}
}
