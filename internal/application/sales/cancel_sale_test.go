package sales_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/inventory"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/pkg/logger"
)

func TestCancel_DevuelveStockConEntradas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Harina", "2.00", 10, 0)

	sale, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 4), line(p, 2)))
	require.NoError(t, err)
	require.Equal(t, int64(4), f.stock(t, p))

	cancelled, err := f.cancel.Cancel(ctx, f.companyID, f.userID, sale.ID, dto.CancelSaleRequest{Reason: "cliente desistió"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), f.stock(t, p))

	movs := f.movements(t, p)
	require.Len(t, movs, 5, "inicial + 2 salidas + 2 entradas")
	for _, m := range movs[:2] {
		assert.Equal(t, entity.MovementEntry, m.Kind)
		assert.Equal(t, "cancelación venta VEN-000001: cliente desistió", m.Reason)
		assert.Equal(t, sale.ID, m.Reference)
	}
	require.Len(t, f.pub.ofType(event.TypeSaleCancelled), 1)

	stored, err := f.query.Get(ctx, f.companyID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, stored.Status)
}

func TestCancel_DosVecesEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Harina", "2.00", 10, 0)
	sale, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 1)))
	require.NoError(t, err)

	_, err = f.cancel.Cancel(ctx, f.companyID, f.userID, sale.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)
	_, err = f.cancel.Cancel(ctx, f.companyID, f.userID, sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(10), f.stock(t, p), "la segunda cancelación no devuelve stock")
	assert.Len(t, f.movements(t, p), 3)
}

func TestCancel_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cancel.Cancel(ctx, f.companyID, f.userID, uuid.NewString(), dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.cancel.Cancel(ctx, f.companyID, f.userID, "123", dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardex_ConciliaTrasVentasYCancelaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Arroz", "5.00", 20, 3)
	b := f.product(t, "Azúcar", "3.00", 8, 2)
	stock := inventory.NewUseCase(f.store, f.store.Products(), f.store.Movements(), f.pub, nil, nil, logger.Nop(), inventory.Config{})

	first, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(a, 5), line(b, 3)))
	require.NoError(t, err)
	_, err = f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(a, 2)))
	require.NoError(t, err)
	_, err = stock.Adjust(ctx, f.companyID, f.userID, b, dto.AdjustStockRequest{Delta: -1, Reason: "merma"})
	require.NoError(t, err)
	_, err = f.cancel.Cancel(ctx, f.companyID, f.userID, first.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)

	for id, want := range map[string]int64{a: 18, b: 7} {
		ledger, err := stock.Ledger(ctx, f.companyID, id)
		require.NoError(t, err)
		assert.True(t, ledger.Consistent)
		assert.Equal(t, want, ledger.Stock)
		assert.Equal(t, want, ledger.NetBalance)
	}
}
