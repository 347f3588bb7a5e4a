// Package analytics contiene el caso de uso del dashboard: totales del directorio, ventas por
// período y las listas cortas de stock bajo, ventas y movimientos recientes.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/pkg/logger"
)

const dashboardTop = 5 // elementos por widget

// DashboardUseCase genera el resumen de la empresa.
//
// Las consultas van en paralelo (errgroup); el resultado se guarda en caché hasta que una venta
// o un ajuste de stock la invalide, o venza el TTL.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	movementRepo  repository.StockMovementRepository
	cache         ports.Cache
	ttl           time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
	cache ports.Cache,
	ttl time.Duration,
	log *logger.Logger,
) *DashboardUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &DashboardUseCase{
		dashboardRepo: dashboardRepo,
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		movementRepo:  movementRepo,
		cache:         cache,
		ttl:           ttl,
		log:           log.Component("dashboard"),
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	key := ports.DashboardKey(companyID)
	if raw, ok, err := uc.cache.Get(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("caché del dashboard no disponible")
	} else if ok {
		var cached dto.DashboardSummaryDTO
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := uc.build(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if uc.ttl > 0 {
		if raw, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
				uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo guardar el dashboard en caché")
			}
		}
	}
	return summary, nil
}

func (uc *DashboardUseCase) build(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: [00:00, mañana 00:00); mes: [día 1, mañana); últimos 30 días: [ahora-30d, mañana)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last30 := now.AddDate(0, 0, -30)

	out := &dto.DashboardSummaryDTO{DateLabel: monthLabel(now), GeneratedAt: now.UTC()}
	var (
		totals                repository.DirectoryTotals
		today, month, last30d repository.SalesTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.dashboardRepo.GetTotals(gctx, companyID)
		return wrap("totales", err)
	})
	g.Go(func() error {
		var err error
		today, err = uc.dashboardRepo.GetSalesTotals(gctx, companyID, todayStart, tomorrow)
		return wrap("ventas de hoy", err)
	})
	g.Go(func() error {
		var err error
		month, err = uc.dashboardRepo.GetSalesTotals(gctx, companyID, monthStart, tomorrow)
		return wrap("ventas del mes", err)
	})
	g.Go(func() error {
		var err error
		last30d, err = uc.dashboardRepo.GetSalesTotals(gctx, companyID, last30, tomorrow)
		return wrap("ventas 30 días", err)
	})
	g.Go(func() error {
		low, err := uc.productRepo.ListLowStock(gctx, companyID, dashboardTop)
		if err != nil {
			return wrap("stock bajo", err)
		}
		out.LowStock = dto.FromProducts(low)
		return nil
	})
	g.Go(func() error {
		sales, _, err := uc.saleRepo.List(gctx, companyID, repository.SaleFilter{}, dashboardTop, 0)
		if err != nil {
			return wrap("ventas recientes", err)
		}
		out.RecentSales = dto.FromSales(sales)
		return nil
	})
	g.Go(func() error {
		movs, err := uc.movementRepo.List(gctx, companyID, repository.MovementFilter{}, dashboardTop, 0)
		if err != nil {
			return wrap("movimientos recientes", err)
		}
		out.RecentMovements = dto.FromMovements(movs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Totals = dto.DashboardTotalsDTO{
		Products:   totals.Products,
		Clients:    totals.Clients,
		Categories: totals.Categories,
		Suppliers:  totals.Suppliers,
		LowStock:   totals.LowStock,
		OutOfStock: totals.OutOfStock,
	}
	out.Today = period(today)
	out.Month = period(month)
	out.Last30Days = period(last30d)
	return out, nil
}

func period(t repository.SalesTotals) dto.PeriodSalesDTO {
	return dto.PeriodSalesDTO{Count: t.Count, Revenue: t.Revenue.Round(2)}
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard: %s: %w", what, err)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
