package capacity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rack-inventario-api/internal/domain/capacity"
)

func TestCanReserve(t *testing.T) {
	cases := []struct {
		name                  string
		total, occupied, qty  int
		want                  bool
	}{
		{"slot vacío", 100, 0, 30, true},
		{"llena exacto", 50, 10, 40, true},
		{"excede", 50, 50, 20, false},
		{"excede por uno", 50, 10, 41, false},
		{"cantidad negativa", 50, 0, -1, false},
		{"ocupación negativa", 50, -5, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, capacity.CanReserve(tc.total, tc.occupied, tc.qty))
		})
	}
}

func TestReserveRelease_RoundTrip(t *testing.T) {
	occupied := capacity.Reserve(0, 30)
	assert.Equal(t, 30, occupied)

	next, drift := capacity.Release(occupied, 30)
	assert.Equal(t, 0, next)
	assert.Equal(t, 0, drift)
}

func TestRelease_NuncaNegativo(t *testing.T) {
	next, drift := capacity.Release(10, 25)
	assert.Equal(t, 0, next, "la ocupación no puede quedar negativa")
	assert.Equal(t, 15, drift, "el excedente se reporta como desviación")
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, capacity.ValidQuantity(1))
	assert.False(t, capacity.ValidQuantity(0))
	assert.False(t, capacity.ValidQuantity(-5))
}
