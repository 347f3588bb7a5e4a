package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

// QueryUseCase consultas de ventas y comprobante.
type QueryUseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
	renderer    ReceiptRenderer
}

// NewQueryUseCase construye el caso de uso. renderer puede ser nil (sin comprobantes).
func NewQueryUseCase(
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	renderer ReceiptRenderer,
) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, clientRepo: clientRepo, companyRepo: companyRepo, renderer: renderer}
}

// Get venta con líneas por ID.
func (uc *QueryUseCase) Get(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSale(sale)
	return &resp, nil
}

// GetByNumber venta por número consecutivo.
func (uc *QueryUseCase) GetByNumber(ctx context.Context, companyID string, number int64) (*dto.SaleResponse, error) {
	if number <= 0 {
		return nil, domain.Invalid("number", "debe ser positivo")
	}
	sale, err := uc.saleRepo.GetByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.FromSale(sale)
	return &resp, nil
}

// List ventas más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, companyID string, in dto.SaleFilterRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.saleRepo.List(ctx, companyID, repository.SaleFilter{
		Status:   in.Status,
		ClientID: in.ClientID,
		From:     in.From,
		To:       in.To,
	}, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{
		Items: dto.FromSales(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Receipt genera el PDF del comprobante.
func (uc *QueryUseCase) Receipt(ctx context.Context, companyID, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("comprobantes deshabilitados: %w", domain.ErrNotFound)
	}
	sale, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(ctx, companyID, sale.ClientID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.RenderReceipt(ReceiptData{Company: company, Client: client, Sale: sale})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante %s: %w", sale.NumberLabel, err)
	}
	return pdf, sale.NumberLabel + ".pdf", nil
}

func (uc *QueryUseCase) load(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.saleRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}
