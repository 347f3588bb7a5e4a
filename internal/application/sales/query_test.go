package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
)

type stubRenderer struct {
	got sales.ReceiptData
}

func (r *stubRenderer) RenderReceipt(data sales.ReceiptData) ([]byte, error) {
	r.got = data
	if data.Sale == nil {
		return nil, errors.New("sin venta")
	}
	return []byte("%PDF-" + data.Sale.NumberLabel), nil
}

func TestQuery_GetByNumberYListado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Jugo", "1.50", 10, 0)

	for i := 0; i < 3; i++ {
		_, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 1)))
		require.NoError(t, err)
	}

	second, err := f.query.GetByNumber(ctx, f.companyID, 2)
	require.NoError(t, err)
	assert.Equal(t, "VEN-000002", second.NumberLabel)
	require.Len(t, second.Lines, 1)

	_, err = f.query.GetByNumber(ctx, f.companyID, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.GetByNumber(ctx, f.companyID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.query.List(ctx, f.companyID, dto.SaleFilterRequest{Status: entity.SaleStatusFinalized})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Page.Total)
	assert.Len(t, list.Items, 3)
}

func TestQuery_Receipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Jugo", "1.50", 10, 0)
	sale, err := f.create.Execute(ctx, f.companyID, f.userID, f.sale(line(p, 2)))
	require.NoError(t, err)

	renderer := &stubRenderer{}
	query := sales.NewQueryUseCase(f.store.Sales(), f.store.Clients(), f.store.Companies(), renderer)
	pdf, name, err := query.Receipt(ctx, f.companyID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "VEN-000001.pdf", name)
	assert.Equal(t, "%PDF-VEN-000001", string(pdf))
	require.NotNil(t, renderer.got.Client)
	assert.Equal(t, f.clientID, renderer.got.Client.ID)
	assert.Equal(t, f.companyID, renderer.got.Company.ID)

	_, _, err = f.query.Receipt(ctx, f.companyID, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin renderer no hay comprobantes")
}
