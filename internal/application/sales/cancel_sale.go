package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// CancelSaleUseCase anula una venta. Si estaba finalizada devuelve el stock con una entrada
// por línea; el kardex conserva la salida original.
type CancelSaleUseCase struct {
	txRunner    repository.TxRunner
	afterCommit ports.AfterCommit
	metrics     ports.Metrics
	log         *logger.Logger
	cfg         Config
	now         func() time.Time
}

// NewCancelSaleUseCase construye el caso de uso.
func NewCancelSaleUseCase(
	txRunner repository.TxRunner,
	publisher ports.EventPublisher,
	cache ports.Cache,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *CancelSaleUseCase {
	log = log.Component("sales")
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CancelSaleUseCase{
		txRunner:    txRunner,
		afterCommit: ports.AfterCommit{Publisher: publisher, Cache: cache, Log: log},
		metrics:     metrics,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Cancel pasa la venta a cancelled. Cancelar una venta ya cancelada es ErrConflict.
func (uc *CancelSaleUseCase) Cancel(ctx context.Context, companyID, userID, saleID string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	if _, err := uuid.Parse(saleID); err != nil {
		return nil, domain.ErrNotFound
	}
	var sale *entity.Sale
	onRetry := func(attempt int, err error) { uc.metrics.TxRetried("cancel_sale") }
	err := retry.Transient(ctx, uc.cfg.Retry, onRetry, func(ctx context.Context) error {
		if uc.cfg.TxTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, uc.cfg.TxTimeout)
			defer cancel()
		}
		return uc.txRunner.Run(ctx, func(s repository.Stores) error {
			var err error
			sale, err = uc.apply(ctx, s, companyID, userID, saleID, in.Reason)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("company_id", companyID).Str("sale_number", sale.NumberLabel).Msg("venta cancelada")
	uc.afterCommit.Dispatch(ctx, companyID, event.ForSale(event.TypeSaleCancelled, sale))
	resp := dto.FromSale(sale)
	return &resp, nil
}

func (uc *CancelSaleUseCase) apply(ctx context.Context, s repository.Stores, companyID, userID, saleID, note string) (*entity.Sale, error) {
	sale, err := s.Sales.GetForUpdate(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !sale.CanTransitionTo(entity.SaleStatusCancelled) {
		return nil, fmt.Errorf("venta %s en estado %s: %w", sale.NumberLabel, sale.Status, domain.ErrConflict)
	}

	now := uc.now().UTC()
	if sale.Status == entity.SaleStatusFinalized {
		if err := restoreStock(ctx, s, sale, userID, note, now); err != nil {
			return nil, err
		}
	}
	if err := s.Sales.UpdateStatus(ctx, companyID, sale.ID, entity.SaleStatusCancelled, now); err != nil {
		return nil, err
	}
	sale.Status = entity.SaleStatusCancelled
	sale.CancelledAt = &now
	return sale, nil
}

func restoreStock(ctx context.Context, s repository.Stores, sale *entity.Sale, userID, note string, now time.Time) error {
	demand := make(map[string]int64)
	ids := make([]string, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		if _, ok := demand[l.ProductID]; !ok {
			ids = append(ids, l.ProductID)
		}
		demand[l.ProductID] += l.Quantity
	}
	products, err := s.Products.GetForUpdate(ctx, sale.CompanyID, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.Products.UpdateStock(ctx, sale.CompanyID, p.ID, p.Stock+demand[p.ID]); err != nil {
			return err
		}
	}

	reason := "cancelación venta " + sale.NumberLabel
	if note != "" {
		reason += ": " + note
	}
	for _, l := range sale.Lines {
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: sale.CompanyID,
			ProductID: l.ProductID,
			Kind:      entity.MovementEntry,
			Quantity:  l.Quantity,
			Reason:    reason,
			Reference: sale.ID,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := s.Movements.Append(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}
