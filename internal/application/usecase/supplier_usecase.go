package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	txRunner repository.TxRunner
	repo     repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(txRunner repository.TxRunner, repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{txRunner: txRunner, repo: repo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Document:    strings.TrimSpace(in.Document),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		ContactName: in.ContactName,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "no puede quedar vacío")
	}
	var out *entity.Supplier
	err := uc.locked(ctx, companyID, id, func(st repository.Stores, s *entity.Supplier) error {
		if in.Name != nil {
			s.Name = strings.TrimSpace(*in.Name)
		}
		if in.Document != nil {
			s.Document = strings.TrimSpace(*in.Document)
		}
		if in.Email != nil {
			s.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			s.Phone = *in.Phone
		}
		if in.ContactName != nil {
			s.ContactName = *in.ContactName
		}
		if in.Active != nil && !*in.Active && s.Active {
			if err := guardSupplier(ctx, st, companyID, s.ID); err != nil {
				return err
			}
		}
		if in.Active != nil {
			s.Active = *in.Active
		}
		s.UpdatedAt = time.Now().UTC()
		out = s
		return st.Suppliers.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(out), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, companyID string, all bool) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx, companyID, !all)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Delete desactiva el proveedor; se bloquea mientras tenga productos activos.
func (uc *SupplierUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.locked(ctx, companyID, id, func(st repository.Stores, s *entity.Supplier) error {
		if err := guardSupplier(ctx, st, companyID, s.ID); err != nil {
			return err
		}
		s.Active = false
		s.UpdatedAt = time.Now().UTC()
		return st.Suppliers.Update(ctx, s)
	})
}

func (uc *SupplierUseCase) locked(ctx context.Context, companyID, id string, fn func(repository.Stores, *entity.Supplier) error) error {
	if err := validID(id); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(st repository.Stores) error {
		s, err := st.Suppliers.Lock(ctx, companyID, id, repository.LockUpdate)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		return fn(st, s)
	})
}

func guardSupplier(ctx context.Context, s repository.Stores, companyID, id string) error {
	n, err := s.Products.CountActiveBySupplier(ctx, companyID, id)
	if err != nil {
		return err
	}
	return blocked("proveedor", n)
}

func (uc *SupplierUseCase) load(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		Document:    s.Document,
		Email:       s.Email,
		Phone:       s.Phone,
		ContactName: s.ContactName,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
