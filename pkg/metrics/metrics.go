package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine agrupa las métricas del motor de stock. Los métodos toleran receptor nil.
type Engine struct {
	movements  *prometheus.CounterVec
	units      *prometheus.CounterVec
	operations *prometheus.CounterVec

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New crea las métricas sobre un registro propio.
func New(service string) *Engine {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(service, reg, reg)
}

// NewWithRegistry permite inyectar el registro (p. ej. prometheus.DefaultRegisterer).
func NewWithRegistry(service string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Engine {
	constLabels := prometheus.Labels{"service": service}
	m := &Engine{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "stock_movements_total",
			Help:        "Movimientos de stock registrados por origen y dirección",
			ConstLabels: constLabels,
		}, []string{"source_type", "direction"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "stock_movement_units_total",
			Help:        "Unidades movidas por origen y dirección",
			ConstLabels: constLabels,
		}, []string{"source_type", "direction"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "stock_engine_operations_total",
			Help:        "Operaciones del motor por resultado",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total de peticiones HTTP",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duración de peticiones HTTP en segundos",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.movements, m.units, m.operations, m.requests, m.duration)
	return m
}

// Movement contabiliza un movimiento confirmado. quantity es firmada.
func (m *Engine) Movement(sourceType string, quantity int64) {
	if m == nil || quantity == 0 {
		return
	}
	direction := "in"
	if quantity < 0 {
		direction = "out"
		quantity = -quantity
	}
	m.movements.WithLabelValues(sourceType, direction).Inc()
	m.units.WithLabelValues(sourceType, direction).Add(float64(quantity))
}

// Operation contabiliza el resultado de una operación del motor ("ok" o la clase de error).
func (m *Engine) Operation(name, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(name, outcome).Inc()
}

// Middleware registra conteo y duración de cada petición HTTP.
func (m *Engine) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if m == nil {
			return err
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		statusStr := strconv.Itoa(status)
		m.requests.WithLabelValues(c.Method(), path, statusStr).Inc()
		m.duration.WithLabelValues(c.Method(), path, statusStr).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone las métricas en formato Prometheus.
func (m *Engine) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
