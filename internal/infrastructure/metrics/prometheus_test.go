package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_ContadoresDeNegocio(t *testing.T) {
	p := New()
	p.SaleProcessed("finalized", 20*time.Millisecond)
	p.SaleProcessed("finalized", 10*time.Millisecond)
	p.SaleProcessed("rejected", time.Millisecond)
	p.TxRetried("create_sale")
	p.StockMoved("exit", 4)
	p.StockMoved("entry", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.salesTotal.WithLabelValues("finalized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.salesTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.txRetries.WithLabelValues("create_sale")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.stockUnits.WithLabelValues("exit")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.stockUnits), "cantidad cero no crea serie")
}

func TestPrometheus_MiddlewareUsaPatronDeRuta(t *testing.T) {
	p := New()
	app := fiber.New()
	app.Use(p.Middleware())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/products/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(p.httpRequests.WithLabelValues("GET", "/api/products/:id", "204")))
}
