// Package metrics implementa ports.Metrics con Prometheus y expone un middleware HTTP para Fiber.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "stockpro"

// Prometheus colectores de negocio y HTTP registrados en un Registry propio.
type Prometheus struct {
	registry *prometheus.Registry

	salesTotal   *prometheus.CounterVec
	saleDuration *prometheus.HistogramVec
	txRetries    *prometheus.CounterVec
	stockUnits   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registra todos los colectores, incluidos los de proceso y runtime de Go.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		salesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_processed_total",
			Help:      "Ventas procesadas por resultado",
		}, []string{"outcome"}),
		saleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_duration_seconds",
			Help:      "Duración del procesamiento de una venta",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"outcome"}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Reintentos de transacción por contención",
		}, []string{"operation"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_moved_total",
			Help:      "Unidades movidas en el kardex por tipo",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia HTTP por método y ruta",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.salesTotal, p.saleDuration, p.txRetries, p.stockUnits,
		p.httpRequests, p.httpDuration,
	)
	return p
}

// Registry para exponer con promhttp.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) SaleProcessed(outcome string, d time.Duration) {
	p.salesTotal.WithLabelValues(outcome).Inc()
	p.saleDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *Prometheus) TxRetried(operation string) {
	p.txRetries.WithLabelValues(operation).Inc()
}

func (p *Prometheus) StockMoved(kind string, quantity int64) {
	if quantity <= 0 {
		return
	}
	p.stockUnits.WithLabelValues(kind).Add(float64(quantity))
}

// Middleware mide cada petición. La ruta es el patrón registrado (no la URL) para acotar la cardinalidad.
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "desconocida"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		p.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		p.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
