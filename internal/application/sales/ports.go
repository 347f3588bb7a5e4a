package sales

import "github.com/jhoicas/stockpro/internal/domain/entity"

// ReceiptData lo necesario para imprimir el comprobante de una venta.
type ReceiptData struct {
	Company *entity.Company
	Client  *entity.Client
	Sale    *entity.Sale
}

// ReceiptRenderer genera el comprobante (PDF) de una venta.
type ReceiptRenderer interface {
	RenderReceipt(data ReceiptData) ([]byte, error)
}
