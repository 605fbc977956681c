package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEngine_Movement(t *testing.T) {
	m := New("test")
	m.Movement("inbound", 7)
	m.Movement("outbound", -3)
	m.Movement("outbound", -2)
	m.Movement("outbound", 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.movements.WithLabelValues("inbound", "in")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.movements.WithLabelValues("outbound", "out")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.units.WithLabelValues("outbound", "out")))
}

func TestEngine_NilSeguro(t *testing.T) {
	var m *Engine
	assert.NotPanics(t, func() {
		m.Movement("inbound", 1)
		m.Operation("commit", "ok")
	})
}
