package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0,00", money(decimal.Zero))
	assert.Equal(t, "$999,90", money(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$1.234.567,50", money(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-$1.000,00", money(decimal.NewFromInt(-1000)))
}

func TestRenderReceipt_GeneraPDF(t *testing.T) {
	sale := &entity.Sale{
		NumberLabel:   "VEN-000007",
		Status:        entity.SaleStatusFinalized,
		PaymentMethod: entity.PaymentCash,
		Discount:      decimal.NewFromInt(2),
		CreatedAt:     time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
		Lines: []entity.SaleLine{
			{ProductCode: "0001", ProductName: "Café", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
	}
	sale.ComputeTotals()

	out, err := NewReceiptRenderer().RenderReceipt(sales.ReceiptData{
		Company: &entity.Company{Name: "Tienda Uno", Document: "900123"},
		Client:  &entity.Client{Name: "Ana", Document: "123", City: "Bogotá"},
		Sale:    sale,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderReceipt_SinVenta(t *testing.T) {
	_, err := NewReceiptRenderer().RenderReceipt(sales.ReceiptData{Company: &entity.Company{}})
	assert.Error(t, err)
}
