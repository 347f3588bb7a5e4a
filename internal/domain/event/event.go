// Package event define los eventos de dominio que se publican después de cada commit.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// Tipos de evento.
const (
	TypeSaleFinalized = "sale.finalized"
	TypeSaleCancelled = "sale.cancelled"
	TypeStockLow      = "stock.low"
	TypeStockAdjusted = "stock.adjusted"
)

// Event sobre genérico. Key se usa como clave de partición (mismo producto/venta -> mismo orden).
type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New arma un evento con ID y fecha.
func New(eventType, companyID, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CompanyID:  companyID,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// SaleLinePayload línea de venta en un evento.
type SaleLinePayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// SalePayload datos de una venta finalizada o cancelada.
type SalePayload struct {
	SaleID   string            `json:"sale_id"`
	Number   string            `json:"number"`
	ClientID string            `json:"client_id"`
	UserID   string            `json:"user_id"`
	Total    string            `json:"total"`
	Lines    []SaleLinePayload `json:"lines"`
}

// StockPayload estado de stock de un producto tras un cambio.
type StockPayload struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"min_stock"`
	Delta     int64  `json:"delta,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ForSale evento de venta con sus líneas.
func ForSale(eventType string, s *entity.Sale) Event {
	p := SalePayload{
		SaleID:   s.ID,
		Number:   s.NumberLabel,
		ClientID: s.ClientID,
		UserID:   s.UserID,
		Total:    s.Total.StringFixed(2),
		Lines:    make([]SaleLinePayload, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		p.Lines = append(p.Lines, SaleLinePayload{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice.String()})
	}
	return New(eventType, s.CompanyID, s.ID, p)
}

// ForStock evento de stock de un producto (stock.low o stock.adjusted).
func ForStock(eventType string, p *entity.Product, delta int64, reason string) Event {
	return New(eventType, p.CompanyID, p.ID, StockPayload{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		Delta:     delta,
		Reason:    reason,
	})
}
