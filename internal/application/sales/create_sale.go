// Package sales contiene el procesador de ventas: validación todo-o-nada, descuento de stock,
// kardex y numeración consecutiva dentro de una sola transacción.
package sales

import (
	"context"
	"errors"
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

// Config parámetros del procesador.
type Config struct {
	NumberPrefix string
	NumberWidth  int
	TxTimeout    time.Duration
	Retry        retry.Policy
}

// CreateSaleUseCase registra una venta y descuenta el inventario en una sola transacción.
type CreateSaleUseCase struct {
	txRunner    repository.TxRunner
	afterCommit ports.AfterCommit
	metrics     ports.Metrics
	log         *logger.Logger
	cfg         Config
	now         func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner repository.TxRunner,
	publisher ports.EventPublisher,
	cache ports.Cache,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *CreateSaleUseCase {
	if cfg.NumberWidth <= 0 {
		cfg.NumberWidth = 6
	}
	log = log.Component("sales")
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		afterCommit: ports.AfterCommit{Publisher: publisher, Cache: cache, Log: log},
		metrics:     metrics,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Execute valida y persiste la venta. Si alguna línea o el cliente falla devuelve
// *domain.SaleRejectedError con todos los motivos y no modifica nada.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	start := time.Now()
	sale, low, err := uc.execute(ctx, companyID, userID, in)
	uc.metrics.SaleProcessed(outcome(err), time.Since(start))
	if err != nil {
		var rejected *domain.SaleRejectedError
		switch {
		case errors.As(err, &rejected):
			uc.log.Info().Str("company_id", companyID).Int("failures", len(rejected.Failures)).Msg("venta rechazada")
		case errors.Is(err, domain.ErrTransient):
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("venta abortada por contención")
		case !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrNotFound):
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("error registrando venta")
		}
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("sale_number", sale.NumberLabel).
		Int("lines", len(sale.Lines)).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta registrada")

	events := []event.Event{event.ForSale(event.TypeSaleFinalized, sale)}
	for _, p := range low {
		events = append(events, event.ForStock(event.TypeStockLow, p, 0, "venta "+sale.NumberLabel))
	}
	uc.afterCommit.Dispatch(ctx, companyID, events...)

	resp := dto.FromSale(sale)
	return &resp, nil
}

func (uc *CreateSaleUseCase) execute(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*entity.Sale, []*entity.Product, error) {
	if err := validateShape(&in); err != nil {
		return nil, nil, err
	}
	if in.PointOfSaleID != "" {
		if _, err := uuid.Parse(in.PointOfSaleID); err != nil {
			return nil, nil, domain.Invalid("point_of_sale_id", "identificador inválido")
		}
	}

	var (
		sale *entity.Sale
		low  []*entity.Product
	)
	onRetry := func(attempt int, err error) {
		uc.metrics.TxRetried("create_sale")
		uc.log.Warn().Err(err).Int("attempt", attempt).Str("company_id", companyID).Msg("reintentando venta")
	}
	err := retry.Transient(ctx, uc.cfg.Retry, onRetry, func(ctx context.Context) error {
		if uc.cfg.TxTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, uc.cfg.TxTimeout)
			defer cancel()
		}
		return uc.txRunner.Run(ctx, func(s repository.Stores) error {
			var err error
			sale, low, err = uc.apply(ctx, s, companyID, userID, in)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return sale, low, nil
}

// validateShape revisa la forma del pedido; no consulta el almacén.
func validateShape(in *dto.CreateSaleRequest) error {
	if in.ClientID == "" {
		return domain.Invalid("client_id", "es obligatorio")
	}
	if len(in.Lines) == 0 {
		return domain.Invalid("lines", "la venta debe tener al menos una línea")
	}
	if in.Discount.IsNegative() {
		return domain.Invalid("discount", "no puede ser negativo")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return domain.Invalid("payment_method", "forma de pago desconocida %q", in.PaymentMethod)
	}
	for i, l := range in.Lines {
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return domain.Invalid(fmt.Sprintf("lines[%d].unit_price", i), "no puede ser negativo")
		}
	}
	return nil
}

// apply corre dentro de la transacción. Cliente y punto de venta quedan con bloqueo compartido;
// los productos se bloquean en orden de ID, las líneas se evalúan en orden de entrada con
// demanda acumulada y solo se muta si todas pasan.
func (uc *CreateSaleUseCase) apply(ctx context.Context, s repository.Stores, companyID, userID string, in dto.CreateSaleRequest) (*entity.Sale, []*entity.Product, error) {
	var failures []domain.LineFailure

	if in.PointOfSaleID != "" {
		pos, err := s.PointsOfSale.Lock(ctx, companyID, in.PointOfSaleID, repository.LockShare)
		if err != nil {
			return nil, nil, err
		}
		if pos == nil || !pos.Active {
			return nil, nil, fmt.Errorf("punto de venta %s: %w", in.PointOfSaleID, domain.ErrNotFound)
		}
	}

	ok, err := clientResolves(ctx, s, companyID, in.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		failures = append(failures, domain.LineFailure{Index: -1, Reason: domain.ReasonClientNotFound})
	}

	ids := make([]string, 0, len(in.Lines))
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if _, err := uuid.Parse(l.ProductID); err != nil || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}
	products, err := s.Products.GetForUpdate(ctx, companyID, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	remaining := make(map[string]int64, len(products))
	for _, p := range products {
		byID[p.ID] = p
		remaining[p.ID] = p.Stock
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ClientID:      in.ClientID,
		UserID:        userID,
		PointOfSaleID: in.PointOfSaleID,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		Discount:      in.Discount,
		CreatedAt:     uc.now().UTC(),
	}
	for i, l := range in.Lines {
		p := byID[l.ProductID]
		switch {
		case p == nil || !p.Active:
			failures = append(failures, domain.LineFailure{Index: i, ProductID: l.ProductID, Reason: domain.ReasonProductNotFound})
			continue
		case l.Quantity <= 0:
			failures = append(failures, domain.LineFailure{Index: i, ProductID: l.ProductID, Reason: domain.ReasonInvalidQuantity, Requested: l.Quantity})
			continue
		case l.Quantity > remaining[p.ID]:
			failures = append(failures, domain.LineFailure{
				Index:     i,
				ProductID: l.ProductID,
				Reason:    domain.ReasonInsufficientStock,
				Requested: l.Quantity,
				Available: remaining[p.ID],
			})
			continue
		}
		remaining[p.ID] -= l.Quantity

		price := p.SalePrice
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			Position:    i + 1,
			ProductID:   p.ID,
			ProductCode: p.Code,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   price,
		})
	}
	if len(failures) > 0 {
		return nil, nil, &domain.SaleRejectedError{Failures: failures}
	}

	sale.ComputeTotals()
	if sale.Discount.GreaterThan(sale.Subtotal) {
		return nil, nil, domain.Invalid("discount", "no puede superar el subtotal %s", sale.Subtotal.StringFixed(2))
	}

	number, err := s.Sequences.Next(ctx, companyID, repository.SequenceSale)
	if err != nil {
		return nil, nil, err
	}
	sale.Number = number
	sale.NumberLabel = entity.FormatSaleNumber(uc.cfg.NumberPrefix, number, uc.cfg.NumberWidth)
	sale.Status = entity.SaleStatusFinalized

	if err := s.Sales.Create(ctx, sale); err != nil {
		return nil, nil, err
	}

	reason := "venta " + sale.NumberLabel
	var low []*entity.Product
	for _, id := range ids {
		p := byID[id]
		if p == nil || remaining[id] == p.Stock {
			continue
		}
		if err := s.Products.UpdateStock(ctx, companyID, id, remaining[id]); err != nil {
			return nil, nil, err
		}
		p.Stock = remaining[id]
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	for _, l := range sale.Lines {
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ProductID: l.ProductID,
			Kind:      entity.MovementExit,
			Quantity:  l.Quantity,
			Reason:    reason,
			Reference: sale.ID,
			CreatedBy: userID,
			CreatedAt: sale.CreatedAt,
		}
		if err := s.Movements.Append(ctx, mov); err != nil {
			return nil, nil, err
		}
	}
	return sale, low, nil
}

// clientResolves un ID mal formado no llega a la base: en PostgreSQL abortaría la transacción.
func clientResolves(ctx context.Context, s repository.Stores, companyID, clientID string) (bool, error) {
	if _, err := uuid.Parse(clientID); err != nil {
		return false, nil
	}
	c, err := s.Clients.Lock(ctx, companyID, clientID, repository.LockShare)
	if err != nil {
		return false, err
	}
	return c != nil && c.Active, nil
}

func outcome(err error) string {
	var rejected *domain.SaleRejectedError
	switch {
	case err == nil:
		return ports.OutcomeFinalized
	case errors.As(err, &rejected):
		return ports.OutcomeRejected
	case errors.Is(err, domain.ErrTransient):
		return ports.OutcomeTransient
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		return ports.OutcomeInvalid
	}
	return ports.OutcomeError
}
