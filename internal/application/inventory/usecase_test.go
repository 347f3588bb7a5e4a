package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/inventory"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/internal/infrastructure/memory"
	"github.com/jhoicas/stockpro/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	store     *memory.Store
	companyID string
	userID    string
	pub       *recordingPublisher
	products  *usecase.ProductUseCase
	uc        *inventory.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		store:     store,
		companyID: uuid.NewString(),
		userID:    uuid.NewString(),
		pub:       &recordingPublisher{},
	}
	e.products = usecase.NewProductUseCase(store, store.Products(), nil, logger.Nop())
	e.uc = inventory.NewUseCase(store, store.Products(), store.Movements(), e.pub, nil, nil, logger.Nop(), inventory.Config{TxTimeout: time.Second})
	return e
}

func (e *env) product(t *testing.T, name, cost string, stock, min int64) string {
	t.Helper()
	p, err := e.products.Create(context.Background(), e.companyID, e.userID, dto.CreateProductRequest{
		Name:         name,
		CostPrice:    decimal.RequireFromString(cost),
		SalePrice:    decimal.RequireFromString("10"),
		InitialStock: stock,
		MinStock:     min,
	})
	require.NoError(t, err)
	return p.ID
}

func TestAdjust_EntradaYSalida(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Tornillo", "0.10", 10, 2)

	res, err := e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: 5, Reason: "conteo físico"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Product.Stock)
	assert.Equal(t, entity.MovementEntry, res.Movement.Kind)
	assert.Equal(t, int64(5), res.Movement.Quantity)
	assert.Equal(t, e.userID, res.Movement.CreatedBy)

	res, err = e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: -13, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Product.Stock)
	assert.Equal(t, entity.MovementExit, res.Movement.Kind)
	assert.Equal(t, int64(13), res.Movement.Quantity)

	assert.Equal(t, []string{event.TypeStockAdjusted, event.TypeStockAdjusted, event.TypeStockLow}, e.pub.types())
}

func TestAdjust_Rechazos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Tornillo", "0.10", 3, 0)

	_, err := e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: 0, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin motivo")

	_, err = e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: -4, Reason: "merma"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.uc.Adjust(ctx, e.companyID, e.userID, uuid.NewString(), dto.AdjustStockRequest{Delta: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Adjust(ctx, uuid.NewString(), e.userID, p, dto.AdjustStockRequest{Delta: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "otra empresa no ve el producto")

	ledger, err := e.uc.Ledger(ctx, e.companyID, p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ledger.Stock)
	assert.True(t, ledger.Consistent)
}

func TestRestock_CostoPromedioPonderado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Cable", "2.00", 10, 0)
	cost := decimal.RequireFromString("4.00")

	res, err := e.uc.Restock(ctx, e.companyID, e.userID, p, dto.RestockRequest{Quantity: 10, UnitCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.Product.Stock)
	assert.True(t, res.Product.CostPrice.Equal(decimal.RequireFromString("3")), "costo %s", res.Product.CostPrice)
	assert.Equal(t, inventory.DefaultRestockReason, res.Movement.Reason)

	res, err = e.uc.Restock(ctx, e.companyID, e.userID, p, dto.RestockRequest{Quantity: 5, Reason: "donación"})
	require.NoError(t, err)
	assert.True(t, res.Product.CostPrice.Equal(decimal.RequireFromString("3")), "sin costo no cambia el promedio")
	assert.Equal(t, "donación", res.Movement.Reason)

	_, err = e.uc.Restock(ctx, e.companyID, e.userID, p, dto.RestockRequest{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Clavo", "0.05", 4, 0)

	res, err := e.uc.RegisterMovement(ctx, e.companyID, e.userID, dto.RegisterMovementRequest{ProductID: p, Kind: entity.MovementExit, Quantity: 4, Reason: "uso interno"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Product.Stock)

	_, err = e.uc.RegisterMovement(ctx, e.companyID, e.userID, dto.RegisterMovementRequest{ProductID: p, Kind: entity.MovementExit, Quantity: 1, Reason: "uso interno"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.uc.RegisterMovement(ctx, e.companyID, e.userID, dto.RegisterMovementRequest{ProductID: p, Kind: "transfer", Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListRecentMovements_MasRecientePrimero(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Tuerca", "0.20", 0, 0)

	for i := int64(1); i <= 4; i++ {
		_, err := e.uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: i, Reason: "entrada"})
		require.NoError(t, err)
	}

	recent, err := e.uc.ListRecentMovements(ctx, e.companyID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(4), recent[0].Quantity)
	assert.Equal(t, int64(3), recent[1].Quantity)
	assert.Equal(t, int64(2), recent[2].Quantity)
	assert.Greater(t, recent[0].Seq, recent[1].Seq)
}

func TestListMovements_Filtros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.product(t, "A", "1", 5, 0)
	b := e.product(t, "B", "1", 5, 0)
	_, err := e.uc.Adjust(ctx, e.companyID, e.userID, a, dto.AdjustStockRequest{Delta: -1, Reason: "merma"})
	require.NoError(t, err)

	list, err := e.uc.ListMovements(ctx, e.companyID, dto.MovementFilterRequest{ProductID: a})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = e.uc.ListMovements(ctx, e.companyID, dto.MovementFilterRequest{Kind: entity.MovementExit})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a, list[0].ProductID)

	list, err = e.uc.ListMovements(ctx, e.companyID, dto.MovementFilterRequest{ProductID: b, Kind: entity.MovementEntry})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = e.uc.ListMovements(ctx, e.companyID, dto.MovementFilterRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetLowStockProducts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "Sobrado", "1", 50, 5)
	edge := e.product(t, "Justo", "1", 5, 5)
	empty := e.product(t, "Agotado", "1", 0, 1)

	low, err := e.uc.GetLowStockProducts(ctx, e.companyID, 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, empty, low[0].ID)
	assert.Equal(t, edge, low[1].ID)
}

func TestReplenishment_PrioridadYCantidades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "Sobrado", "1", 50, 5)
	out := e.product(t, "Agotado", "2.00", 0, 4)
	e.product(t, "Bajo B", "1.50", 3, 5)
	e.product(t, "Bajo A", "1.00", 2, 4)

	list, err := inventory.NewReplenishmentUseCase(e.store.Products()).GenerateReplenishmentList(ctx, e.companyID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, out, list[0].ProductID)
	assert.True(t, list[0].OutOfStock)
	assert.Equal(t, int64(6), list[0].IdealStock)
	assert.Equal(t, int64(6), list[0].SuggestedOrderQty)
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.RequireFromString("12")))

	assert.Equal(t, "Bajo A", list[1].ProductName, "empate de déficit: orden alfabético")
	assert.Equal(t, int64(4), list[1].SuggestedOrderQty)
	assert.Equal(t, "Bajo B", list[2].ProductName)
	assert.Equal(t, int64(8), list[2].IdealStock)
	assert.Equal(t, int64(5), list[2].SuggestedOrderQty)
	for i, s := range list {
		assert.Equal(t, i+1, s.Priority)
	}
}

func TestAdjust_TransaccionAcotadaPorTxTimeout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Tornillo", "0.10", 4, 0)
	uc := inventory.NewUseCase(e.store, e.store.Products(), e.store.Movements(), e.pub, nil, nil, logger.Nop(), inventory.Config{
		TxTimeout: 30 * time.Millisecond,
		Retry:     retry.Policy{MaxRetries: 1, Backoff: time.Millisecond},
	})

	// otra transacción retiene el almacén
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- e.store.Run(ctx, func(repository.Stores) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	start := time.Now()
	_, err := uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: 1, Reason: "conteo"})
	elapsed := time.Since(start)
	close(release)
	require.NoError(t, <-done)

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Less(t, elapsed, time.Second, "la espera no depende del contexto de la petición")

	res, err := uc.Adjust(ctx, e.companyID, e.userID, p, dto.AdjustStockRequest{Delta: 1, Reason: "conteo"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Product.Stock)
}
