package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// InitialStockReason motivo del movimiento de entrada que registra el stock inicial.
const InitialStockReason = "stock inicial"

const (
	productCodeWidth    = 4
	productCodeAttempts = 20
	defaultUnitMeasure  = "UN"
)

// ProductUseCase casos de uso CRUD para productos. Costo y stock se manejan vía movimientos.
type ProductUseCase struct {
	txRunner    repository.TxRunner
	repo        repository.ProductRepository
	afterCommit ports.AfterCommit
	log         *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repo repository.ProductRepository, cache ports.Cache, log *logger.Logger) *ProductUseCase {
	log = log.Component("products")
	return &ProductUseCase{
		txRunner:    txRunner,
		repo:        repo,
		afterCommit: ports.AfterCommit{Cache: cache, Log: log},
		log:         log,
	}
}

// Create crea un producto con stock 0. Sin código se asigna el siguiente de la secuencia (4 dígitos).
// El stock inicial, si viene, entra como movimiento de entrada en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if in.Name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	if in.SalePrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.Invalid("sale_price", "los precios no pueden ser negativos")
	}
	if in.InitialStock < 0 || in.MinStock < 0 {
		return nil, domain.Invalid("min_stock", "las cantidades no pueden ser negativas")
	}
	if err := refIDs(in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = defaultUnitMeasure
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		CostPrice:   in.CostPrice,
		SalePrice:   in.SalePrice,
		UnitMeasure: in.UnitMeasure,
		MinStock:    in.MinStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		if err := checkRefs(ctx, s, companyID, in.CategoryID, in.SupplierID); err != nil {
			return err
		}
		p := *product
		if p.Code == "" {
			code, err := nextProductCode(ctx, s, companyID)
			if err != nil {
				return err
			}
			p.Code = code
		}
		if err := s.Products.Create(ctx, &p); err != nil {
			return err
		}
		if in.InitialStock > 0 {
			if err := s.Products.UpdateStock(ctx, companyID, p.ID, in.InitialStock); err != nil {
				return err
			}
			if err := s.Movements.Append(ctx, entity.NewMovement(companyID, p.ID, in.InitialStock, InitialStockReason, userID, now)); err != nil {
				return err
			}
			p.Stock = in.InitialStock
		}
		*product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("product_id", product.ID).Str("code", product.Code).Msg("producto creado")
	uc.afterCommit.Dispatch(ctx, companyID)
	resp := dto.FromProduct(product)
	return &resp, nil
}

// nextProductCode salta códigos que ya se asignaron a mano.
func nextProductCode(ctx context.Context, s repository.Stores, companyID string) (string, error) {
	for i := 0; i < productCodeAttempts; i++ {
		n, err := s.Sequences.Next(ctx, companyID, repository.SequenceProductCode)
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%0*d", productCodeWidth, n)
		existing, err := s.Products.GetByCode(ctx, companyID, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("no se encontró un código libre: %w", domain.ErrConflict)
}

// refIDs un ID mal formado no llega a la base: en PostgreSQL abortaría la transacción.
func refIDs(categoryID, supplierID string) error {
	if categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			return domain.Invalid("category_id", "identificador inválido")
		}
	}
	if supplierID != "" {
		if _, err := uuid.Parse(supplierID); err != nil {
			return domain.Invalid("supplier_id", "identificador inválido")
		}
	}
	return nil
}

// checkRefs bloquea categoría y proveedor en modo compartido: no pueden desactivarse
// hasta que el producto quede confirmado.
func checkRefs(ctx context.Context, s repository.Stores, companyID, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := s.Categories.Lock(ctx, companyID, categoryID, repository.LockShare)
		if err != nil {
			return err
		}
		if c == nil || !c.Active {
			return domain.Invalid("category_id", "la categoría no existe")
		}
	}
	if supplierID != "" {
		sup, err := s.Suppliers.Lock(ctx, companyID, supplierID, repository.LockShare)
		if err != nil {
			return err
		}
		if sup == nil || !sup.Active {
			return domain.Invalid("supplier_id", "el proveedor no existe")
		}
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProduct(product)
	return &resp, nil
}

// Update actualiza un producto. No permite modificar costo ni stock (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
		if product.Code == "" {
			return nil, domain.Invalid("code", "no puede quedar vacío")
		}
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		if product.Name == "" {
			return nil, domain.Invalid("name", "no puede quedar vacío")
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	category, supplier := "", ""
	if in.CategoryID != nil {
		product.CategoryID, category = *in.CategoryID, *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID, supplier = *in.SupplierID, *in.SupplierID
	}
	if err := refIDs(category, supplier); err != nil {
		return nil, err
	}
	if in.SalePrice != nil {
		if in.SalePrice.LessThan(decimal.Zero) {
			return nil, domain.Invalid("sale_price", "no puede ser negativo")
		}
		product.SalePrice = *in.SalePrice
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.Invalid("min_stock", "no puede ser negativo")
		}
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now().UTC()
	err = uc.txRunner.Run(ctx, func(s repository.Stores) error {
		if err := checkRefs(ctx, s, companyID, category, supplier); err != nil {
			return err
		}
		return s.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit.Dispatch(ctx, companyID)
	resp := dto.FromProduct(product)
	return &resp, nil
}

// List lista productos por empresa con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, companyID, repository.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		ActiveOnly: !in.All,
	}, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.FromProducts(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete desactiva el producto; el historial de ventas y movimientos lo sigue referenciando.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, id string) error {
	product, err := uc.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !product.Active {
		return nil
	}
	product.Active = false
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return err
	}
	uc.afterCommit.Dispatch(ctx, companyID)
	return nil
}

func (uc *ProductUseCase) load(ctx context.Context, companyID, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
