package sales_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/pkg/logger"
)

func TestExecute_VentaValidaDescuentaStockYAsientaKardex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Arroz 1kg", "5.00", 10, 0)
	b := f.product(t, "Aceite 1L", "2.50", 4, 0)

	in := f.sale(line(a, 3), line(b, 2))
	in.Discount = decimal.RequireFromString("1")
	sale, err := f.create.Execute(ctx, f.companyID, f.userID, in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), sale.Number)
	assert.Equal(t, "VEN-000001", sale.NumberLabel)
	assert.Equal(t, entity.SaleStatusFinalized, sale.Status)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod, "forma de pago por defecto")
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("20")), "subtotal %s", sale.Subtotal)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("19")), "total %s", sale.Total)
	require.Len(t, sale.Lines, 2)

	assert.Equal(t, int64(7), f.stock(t, a))
	assert.Equal(t, int64(2), f.stock(t, b))

	for id, qty := range map[string]int64{a: 3, b: 2} {
		movs := f.movements(t, id)
		require.Len(t, movs, 2, "stock inicial + salida por venta")
		last := movs[0]
		assert.Equal(t, entity.MovementExit, last.Kind)
		assert.Equal(t, qty, last.Quantity)
		assert.Equal(t, "venta VEN-000001", last.Reason)
		assert.Equal(t, sale.ID, last.Reference)
		assert.Equal(t, f.userID, last.CreatedBy)
	}

	finalized := f.pub.ofType(event.TypeSaleFinalized)
	require.Len(t, finalized, 1)
	assert.Equal(t, sale.ID, finalized[0].Key)
	assert.Empty(t, f.pub.ofType(event.TypeStockLow))
	assert.Equal(t, 1, f.metrics.outcomes[ports.OutcomeFinalized])
}

func TestExecute_StockBajoTrasLaVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Café", "10.00", 3, 5)

	in := f.sale(line(p, 2))
	in.Discount = decimal.RequireFromString("1")
	sale, err := f.create.Execute(ctx, f.companyID, f.userID, in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.stock(t, p))
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("19")))

	movs := f.movements(t, p)
	require.NotEmpty(t, movs)
	assert.Equal(t, entity.MovementExit, movs[0].Kind)
	assert.Equal(t, int64(2), movs[0].Quantity)

	low, err := f.store.Products().ListLowStock(ctx, f.companyID, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, p, low[0].ID)

	events := f.pub.ofType(event.TypeStockLow)
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(event.StockPayload)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.Stock)
	assert.Equal(t, int64(5), payload.MinStock)
}

func TestExecute_TodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Arroz", "5.00", 10, 0)
	b := f.product(t, "Frijol", "4.00", 1, 0)

	_, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(a, 2), line(b, 5)))
	require.Error(t, err)

	var rejected *domain.SaleRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Len(t, rejected.Failures, 1)
	assert.Equal(t, domain.LineFailure{
		Index:     1,
		ProductID: b,
		Reason:    domain.ReasonInsufficientStock,
		Requested: 5,
		Available: 1,
	}, rejected.Failures[0])
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.stock(t, a), "la línea válida no se aplicó")
	assert.Equal(t, int64(1), f.stock(t, b))
	assert.Len(t, f.movements(t, a), 1)
	assert.Len(t, f.movements(t, b), 1)
	assert.Empty(t, f.pub.ofType(event.TypeSaleFinalized))
	assert.Equal(t, 1, f.metrics.outcomes[ports.OutcomeRejected])

	// el rechazo no consume número
	sale, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(a, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), sale.Number)
}

func TestExecute_ReportaTodosLosMotivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Arroz", "5.00", 10, 0)
	missing := uuid.NewString()

	in := dto.CreateSaleRequest{
		ClientID: uuid.NewString(),
		Lines: []dto.SaleLineRequest{
			line(a, 1),
			line(missing, 1),
			line("no-es-uuid", 1),
			line(a, 0),
		},
	}
	_, err := f.create.Execute(ctx, f.companyID, f.userID, in)

	var rejected *domain.SaleRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Len(t, rejected.Failures, 4)
	assert.Equal(t, -1, rejected.Failures[0].Index)
	assert.Equal(t, domain.ReasonClientNotFound, rejected.Failures[0].Reason)
	assert.Equal(t, domain.ReasonProductNotFound, rejected.Failures[1].Reason)
	assert.Equal(t, 1, rejected.Failures[1].Index)
	assert.Equal(t, domain.ReasonProductNotFound, rejected.Failures[2].Reason)
	assert.Equal(t, domain.ReasonInvalidQuantity, rejected.Failures[3].Reason)
	assert.Equal(t, 3, rejected.Failures[3].Index)
	assert.Equal(t, int64(10), f.stock(t, a))
}

func TestExecute_DemandaAcumuladaPorProducto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Pan", "1.00", 5, 0)

	_, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 3), line(p, 3)))

	var rejected *domain.SaleRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Len(t, rejected.Failures, 1)
	assert.Equal(t, 1, rejected.Failures[0].Index)
	assert.Equal(t, int64(2), rejected.Failures[0].Available, "lo que queda tras la primera línea")
	assert.Equal(t, int64(5), f.stock(t, p))

	sale, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 3), line(p, 2)))
	require.NoError(t, err)
	assert.Len(t, sale.Lines, 2)
	assert.Equal(t, int64(0), f.stock(t, p))
}

func TestExecute_DescuentoMayorQueSubtotal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Té", "2.00", 5, 0)

	in := f.sale(line(p, 1))
	in.Discount = decimal.RequireFromString("2.01")
	_, err := f.create.Execute(context.Background(), f.companyID, f.userID, in)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "discount", verr.Field)
	assert.Equal(t, int64(5), f.stock(t, p))
	assert.Equal(t, 1, f.metrics.outcomes[ports.OutcomeInvalid])
}

func TestExecute_ValidacionesDeForma(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Sal", "1.00", 5, 0)
	neg := decimal.RequireFromString("-1")

	cases := []struct {
		name  string
		in    dto.CreateSaleRequest
		field string
	}{
		{"sin cliente", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{line(p, 1)}}, "client_id"},
		{"sin líneas", dto.CreateSaleRequest{ClientID: f.clientID}, "lines"},
		{"descuento negativo", dto.CreateSaleRequest{ClientID: f.clientID, Discount: neg, Lines: []dto.SaleLineRequest{line(p, 1)}}, "discount"},
		{"forma de pago", dto.CreateSaleRequest{ClientID: f.clientID, PaymentMethod: "cheque", Lines: []dto.SaleLineRequest{line(p, 1)}}, "payment_method"},
		{"precio negativo", dto.CreateSaleRequest{ClientID: f.clientID, Lines: []dto.SaleLineRequest{{ProductID: p, Quantity: 1, UnitPrice: &neg}}}, "lines[0].unit_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), f.companyID, f.userID, tc.in)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "err = %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestExecute_PrecioDeLineaExplicito(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Queso", "8.00", 5, 0)
	price := decimal.RequireFromString("7.50")

	sale, err := f.create.Execute(context.Background(), f.companyID, f.userID, f.sale(dto.SaleLineRequest{ProductID: p, Quantity: 2, UnitPrice: &price}))
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("15")))
}

func TestExecute_PuntoDeVentaInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Sal", "1.00", 5, 0)

	in := f.sale(line(p, 1))
	in.PointOfSaleID = uuid.NewString()
	_, err := f.create.Execute(context.Background(), f.companyID, f.userID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), f.stock(t, p))
}

func TestExecute_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Sal", "1.00", 5, 0)

	_, err := f.create.Execute(context.Background(), uuid.NewString(), f.userID, f.sale(line(p, 1)))

	var rejected *domain.SaleRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.True(t, rejected.HasReason(domain.ReasonClientNotFound))
	assert.True(t, rejected.HasReason(domain.ReasonProductNotFound), "los productos tampoco son visibles")
}

func TestExecute_NumerosConsecutivosBajoConcurrencia(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Agua", "1.00", 100, 0)
	const n = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale, err := f.create.Execute(context.Background(), f.companyID, f.userID, f.sale(line(p, 1)))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, sale.Number)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, n)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, num := range numbers {
		assert.Equal(t, int64(i+1), num)
	}
	assert.Equal(t, int64(100-n), f.stock(t, p))
	assert.Len(t, f.movements(t, p), n+1)
}

func TestExecute_UltimaUnidadSoloUnaVentaGana(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Edición limitada", "99.00", 1, 0)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), f.companyID, f.userID, f.sale(line(p, 1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(0), f.stock(t, p))
}

func TestExecute_ReintentaErroresTransitorios(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Leche", "3.00", 5, 0)
	runner := &flakyRunner{TxRunner: f.store, fails: 2}
	create := sales.NewCreateSaleUseCase(runner, f.pub, nil, f.metrics, logger.Nop(), testConfig)

	sale, err := create.Execute(context.Background(), f.companyID, f.userID, f.sale(line(p, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), sale.Number)
	assert.Equal(t, 2, f.metrics.retries)
	assert.Equal(t, int64(4), f.stock(t, p))
}

func TestExecute_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Leche", "3.00", 5, 0)
	runner := &flakyRunner{TxRunner: f.store, fails: 10}
	create := sales.NewCreateSaleUseCase(runner, f.pub, nil, f.metrics, logger.Nop(), testConfig)

	_, err := create.Execute(context.Background(), f.companyID, f.userID, f.sale(line(p, 1)))
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 1, f.metrics.outcomes[ports.OutcomeTransient])
	assert.Equal(t, int64(5), f.stock(t, p))
}
