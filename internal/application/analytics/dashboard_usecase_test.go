package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/infrastructure/memory"
	"github.com/jhoicas/stockpro/pkg/logger"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func seedSale(t *testing.T, store *memory.Store, companyID string, number int64, total string, status string, at time.Time) {
	t.Helper()
	require.NoError(t, store.Sales().Create(context.Background(), &entity.Sale{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Number:        number,
		NumberLabel:   entity.FormatSaleNumber("VEN-", number, 6),
		ClientID:      uuid.NewString(),
		UserID:        uuid.NewString(),
		PaymentMethod: entity.PaymentCash,
		Status:        status,
		Subtotal:      decimal.RequireFromString(total),
		Total:         decimal.RequireFromString(total),
		CreatedAt:     at,
	}))
}

func TestGetSummary_PeriodosYTotales(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	now := time.Date(2026, time.February, 20, 12, 0, 0, 0, time.UTC)

	for _, p := range []entity.Product{
		{Name: "Arroz", Stock: 50, MinStock: 5},
		{Name: "Café", Stock: 2, MinStock: 5},
		{Name: "Té", Stock: 0, MinStock: 1},
	} {
		p := p
		p.ID, p.CompanyID, p.Code, p.Active = uuid.NewString(), companyID, p.Name, true
		require.NoError(t, store.Products().Create(ctx, &p))
	}
	seedSale(t, store, companyID, 1, "10.005", entity.SaleStatusFinalized, now.Add(-time.Hour))
	seedSale(t, store, companyID, 2, "20", entity.SaleStatusFinalized, now.AddDate(0, 0, -10))
	seedSale(t, store, companyID, 3, "30", entity.SaleStatusFinalized, now.AddDate(0, 0, -26))
	seedSale(t, store, companyID, 4, "40", entity.SaleStatusFinalized, now.AddDate(0, 0, -45))
	seedSale(t, store, companyID, 5, "99", entity.SaleStatusCancelled, now.Add(-2*time.Hour))

	uc := NewDashboardUseCase(store.Dashboard(), store.Products(), store.Sales(), store.Movements(), nil, 0, logger.Nop())
	uc.now = func() time.Time { return now }

	s, err := uc.GetSummary(ctx, companyID)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Totals.Products)
	assert.Equal(t, 2, s.Totals.LowStock)
	assert.Equal(t, 1, s.Totals.OutOfStock)

	assert.Equal(t, 1, s.Today.Count)
	assert.True(t, s.Today.Revenue.Equal(decimal.RequireFromString("10.01")), "redondeo a 2 decimales: %s", s.Today.Revenue)
	assert.Equal(t, 2, s.Month.Count)
	assert.Equal(t, 3, s.Last30Days.Count)
	assert.True(t, s.Last30Days.Revenue.Equal(decimal.RequireFromString("60.01")))

	require.Len(t, s.LowStock, 2)
	assert.Equal(t, "Té", s.LowStock[0].Name)
	assert.Len(t, s.RecentSales, 5)
	assert.Equal(t, "Febrero 2026", s.DateLabel)
}

func TestGetSummary_CacheAside(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	cache := &mapCache{}

	uc := NewDashboardUseCase(store.Dashboard(), store.Products(), store.Sales(), store.Movements(), cache, time.Minute, logger.Nop())

	first, err := uc.GetSummary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Today.Count)
	assert.Equal(t, 1, cache.sets)

	seedSale(t, store, companyID, 1, "5", entity.SaleStatusFinalized, time.Now().UTC())

	cached, err := uc.GetSummary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, cached.Today.Count, "se sirve desde caché")

	after := ports.AfterCommit{Cache: cache}
	after.Dispatch(ctx, companyID)

	fresh, err := uc.GetSummary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Today.Count)
	assert.Equal(t, 2, cache.sets)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Enero 2026", monthLabel(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
