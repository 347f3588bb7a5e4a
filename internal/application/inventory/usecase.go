// Package inventory casos de uso de stock: ajustes, reabastecimiento, movimientos manuales,
// consultas del kardex y conciliación.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/internal/domain/inventory"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// DefaultRestockReason motivo cuando el reabastecimiento no trae uno.
const DefaultRestockReason = "reabastecimiento manual"

const (
	defaultRecent = 10
	maxRecent     = 100
)

// Config tope de cada transacción de stock y política de reintentos.
type Config struct {
	TxTimeout time.Duration
	Retry     retry.Policy
}

// UseCase registra cambios de stock de forma transaccional: bloqueo del producto,
// actualización del stock (y costo promedio en entradas con costo) y asiento en el kardex.
type UseCase struct {
	txRunner     repository.TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	afterCommit  ports.AfterCommit
	metrics      ports.Metrics
	log          *logger.Logger
	cfg          Config
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *UseCase {
	log = log.Component("inventory")
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		afterCommit:  ports.AfterCommit{Publisher: publisher, Cache: cache, Log: log},
		metrics:      metrics,
		log:          log,
		cfg:          cfg,
		now:          time.Now,
	}
}

// change cambio de stock ya validado.
type change struct {
	productID string
	delta     int64
	unitCost  *decimal.Decimal
	reason    string
}

// Adjust delta positivo = entrada, negativo = salida, cero = error de validación.
func (uc *UseCase) Adjust(ctx context.Context, companyID, userID, productID string, in dto.AdjustStockRequest) (*dto.StockChangeResponse, error) {
	if in.Delta == 0 {
		return nil, domain.Invalid("delta", "debe ser distinto de cero")
	}
	if in.Reason == "" {
		return nil, domain.Invalid("reason", "es obligatorio")
	}
	return uc.apply(ctx, companyID, userID, change{productID: productID, delta: in.Delta, reason: in.Reason})
}

// Restock entrada de mercancía; con costo unitario recalcula el costo promedio ponderado.
func (uc *UseCase) Restock(ctx context.Context, companyID, userID, productID string, in dto.RestockRequest) (*dto.StockChangeResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.Invalid("unit_cost", "no puede ser negativo")
	}
	reason := in.Reason
	if reason == "" {
		reason = DefaultRestockReason
	}
	return uc.apply(ctx, companyID, userID, change{productID: productID, delta: in.Quantity, unitCost: in.UnitCost, reason: reason})
}

// RegisterMovement movimiento manual de entrada o salida.
func (uc *UseCase) RegisterMovement(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.StockChangeResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.Reason == "" {
		return nil, domain.Invalid("reason", "es obligatorio")
	}
	ch := change{productID: in.ProductID, reason: in.Reason}
	switch in.Kind {
	case entity.MovementEntry:
		if in.UnitCost != nil && in.UnitCost.IsNegative() {
			return nil, domain.Invalid("unit_cost", "no puede ser negativo")
		}
		ch.delta, ch.unitCost = in.Quantity, in.UnitCost
	case entity.MovementExit:
		ch.delta = -in.Quantity
	default:
		return nil, domain.Invalid("kind", "debe ser entry o exit")
	}
	return uc.apply(ctx, companyID, userID, ch)
}

func (uc *UseCase) apply(ctx context.Context, companyID, userID string, ch change) (*dto.StockChangeResponse, error) {
	if _, err := uuid.Parse(ch.productID); err != nil {
		return nil, domain.ErrNotFound
	}
	var (
		product *entity.Product
		mov     *entity.StockMovement
	)
	onRetry := func(attempt int, err error) { uc.metrics.TxRetried("stock_change") }
	err := retry.Transient(ctx, uc.cfg.Retry, onRetry, func(ctx context.Context) error {
		if uc.cfg.TxTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, uc.cfg.TxTimeout)
			defer cancel()
		}
		return uc.txRunner.Run(ctx, func(s repository.Stores) error {
			var err error
			product, mov, err = uc.applyInTx(ctx, s, companyID, userID, ch)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.StockMoved(mov.Kind, mov.Quantity)
	uc.log.Info().
		Str("company_id", companyID).
		Str("product_id", product.ID).
		Int64("delta", ch.delta).
		Int64("stock", product.Stock).
		Msg("stock ajustado")

	events := []event.Event{event.ForStock(event.TypeStockAdjusted, product, ch.delta, ch.reason)}
	if product.IsLowStock() {
		events = append(events, event.ForStock(event.TypeStockLow, product, ch.delta, ch.reason))
	}
	uc.afterCommit.Dispatch(ctx, companyID, events...)

	return &dto.StockChangeResponse{Product: dto.FromProduct(product), Movement: dto.FromMovement(mov)}, nil
}

func (uc *UseCase) applyInTx(ctx context.Context, s repository.Stores, companyID, userID string, ch change) (*entity.Product, *entity.StockMovement, error) {
	locked, err := s.Products.GetForUpdate(ctx, companyID, []string{ch.productID})
	if err != nil {
		return nil, nil, err
	}
	if len(locked) == 0 {
		return nil, nil, domain.ErrNotFound
	}
	p := locked[0]

	next, err := inventory.ApplyDelta(p.Stock, ch.delta)
	if err != nil {
		return nil, nil, fmt.Errorf("producto %s (stock %d, delta %d): %w", p.Code, p.Stock, ch.delta, err)
	}
	if ch.delta > 0 && ch.unitCost != nil {
		cost := inventory.WeightedAverageCost(p.Stock, p.CostPrice, ch.delta, *ch.unitCost)
		if err := s.Products.UpdateCost(ctx, companyID, p.ID, cost); err != nil {
			return nil, nil, err
		}
		p.CostPrice = cost
	}
	if err := s.Products.UpdateStock(ctx, companyID, p.ID, next); err != nil {
		return nil, nil, err
	}
	p.Stock = next

	mov := entity.NewMovement(companyID, p.ID, ch.delta, ch.reason, userID, uc.now().UTC())
	if err := s.Movements.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	return p, mov, nil
}

// ListMovements consulta del kardex con filtros; más recientes primero.
func (uc *UseCase) ListMovements(ctx context.Context, companyID string, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, domain.Invalid("to", "debe ser posterior a from")
	}
	list, err := uc.movementRepo.List(ctx, companyID, repository.MovementFilter{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		From:      in.From,
		To:        in.To,
	}, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return dto.FromMovements(list), nil
}

// ListRecentMovements los n movimientos más recientes de la empresa (a igual fecha, el último insertado primero).
func (uc *UseCase) ListRecentMovements(ctx context.Context, companyID string, n int) ([]dto.MovementResponse, error) {
	if n <= 0 {
		n = defaultRecent
	}
	if n > maxRecent {
		n = maxRecent
	}
	list, err := uc.movementRepo.List(ctx, companyID, repository.MovementFilter{}, n, 0)
	if err != nil {
		return nil, err
	}
	return dto.FromMovements(list), nil
}

// GetLowStockProducts productos activos con stock <= mínimo, menor stock primero.
func (uc *UseCase) GetLowStockProducts(ctx context.Context, companyID string, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	list, err := uc.productRepo.ListLowStock(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromProducts(list), nil
}

// Ledger concilia el stock del producto con el saldo neto del kardex.
func (uc *UseCase) Ledger(ctx context.Context, companyID, productID string) (*dto.LedgerResponse, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := uc.productRepo.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	net, err := uc.movementRepo.NetQuantity(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if net != p.Stock {
		uc.log.Warn().Str("company_id", companyID).Str("product_id", p.ID).
			Int64("stock", p.Stock).Int64("net", net).Msg("kardex descuadrado")
	}
	return &dto.LedgerResponse{ProductID: p.ID, Stock: p.Stock, NetBalance: net, Consistent: net == p.Stock}, nil
}
