package sales_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/application/sales"
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

func (p *recordingPublisher) ofType(t string) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	retries  int
}

func (m *countingMetrics) SaleProcessed(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

func (m *countingMetrics) TxRetried(string) {
	m.mu.Lock()
	m.retries++
	m.mu.Unlock()
}

func (m *countingMetrics) StockMoved(string, int64) {}

// flakyRunner falla las primeras n transacciones con un error transitorio.
type flakyRunner struct {
	repository.TxRunner
	fails int32
}

func (r *flakyRunner) Run(ctx context.Context, fn func(repository.Stores) error) error {
	if atomic.AddInt32(&r.fails, -1) >= 0 {
		return fmt.Errorf("lock timeout: %w", domain.ErrTransient)
	}
	return r.TxRunner.Run(ctx, fn)
}

var testConfig = sales.Config{
	NumberPrefix: "VEN-",
	NumberWidth:  6,
	TxTimeout:    2 * time.Second,
	Retry:        retry.Policy{MaxRetries: 2, Backoff: time.Millisecond},
}

type fixture struct {
	store     *memory.Store
	companyID string
	userID    string
	clientID  string
	pub       *recordingPublisher
	metrics   *countingMetrics
	products  *usecase.ProductUseCase
	create    *sales.CreateSaleUseCase
	cancel    *sales.CancelSaleUseCase
	query     *sales.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		companyID: uuid.NewString(),
		userID:    uuid.NewString(),
		pub:       &recordingPublisher{},
		metrics:   &countingMetrics{},
	}
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{
		ID:       f.companyID,
		Name:     "Tienda Centro",
		Document: "900123456",
		Active:   true,
	}))
	client, err := usecase.NewClientUseCase(store, store.Clients()).Create(ctx, f.companyID, dto.CreateClientRequest{
		Name:     "Ana Gómez",
		Document: "123.456.789-00",
	})
	require.NoError(t, err)
	f.clientID = client.ID

	f.products = usecase.NewProductUseCase(store, store.Products(), nil, logger.Nop())
	f.create = sales.NewCreateSaleUseCase(store, f.pub, nil, f.metrics, logger.Nop(), testConfig)
	f.cancel = sales.NewCancelSaleUseCase(store, f.pub, nil, f.metrics, logger.Nop(), testConfig)
	f.query = sales.NewQueryUseCase(store.Sales(), store.Clients(), store.Companies(), nil)
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock, min int64) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), f.companyID, f.userID, dto.CreateProductRequest{
		Name:         name,
		SalePrice:    decimal.RequireFromString(price),
		InitialStock: stock,
		MinStock:     min,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.companyID, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) movements(t *testing.T, productID string) []*entity.StockMovement {
	t.Helper()
	list, err := f.store.Movements().List(context.Background(), f.companyID, repository.MovementFilter{ProductID: productID}, 100, 0)
	require.NoError(t, err)
	return list
}

func (f *fixture) sale(lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{ClientID: f.clientID, Lines: lines}
}

func line(productID string, qty int64) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, Quantity: qty}
}
