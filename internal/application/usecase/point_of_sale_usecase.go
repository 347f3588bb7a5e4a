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

// PointOfSaleUseCase casos de uso CRUD para puntos de venta.
type PointOfSaleUseCase struct {
	txRunner repository.TxRunner
	repo     repository.PointOfSaleRepository
}

// NewPointOfSaleUseCase construye el caso de uso.
func NewPointOfSaleUseCase(txRunner repository.TxRunner, repo repository.PointOfSaleRepository) *PointOfSaleUseCase {
	return &PointOfSaleUseCase{txRunner: txRunner, repo: repo}
}

func (uc *PointOfSaleUseCase) Create(ctx context.Context, companyID string, in dto.CreatePointOfSaleRequest) (*dto.PointOfSaleResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	now := time.Now().UTC()
	p := &entity.PointOfSale{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Location:  in.Location,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPointOfSaleResponse(p), nil
}

func (uc *PointOfSaleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.PointOfSaleResponse, error) {
	p, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toPointOfSaleResponse(p), nil
}

func (uc *PointOfSaleUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdatePointOfSaleRequest) (*dto.PointOfSaleResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "no puede quedar vacío")
	}
	var out *entity.PointOfSale
	err := uc.locked(ctx, companyID, id, func(s repository.Stores, p *entity.PointOfSale) error {
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.Active != nil && !*in.Active && p.Active {
			if err := guardPointOfSale(ctx, s, companyID, p.ID); err != nil {
				return err
			}
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
		p.UpdatedAt = time.Now().UTC()
		out = p
		return s.PointsOfSale.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPointOfSaleResponse(out), nil
}

func (uc *PointOfSaleUseCase) List(ctx context.Context, companyID string, all bool) ([]dto.PointOfSaleResponse, error) {
	list, err := uc.repo.List(ctx, companyID, !all)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PointOfSaleResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPointOfSaleResponse(p))
	}
	return out, nil
}

// Delete desactiva el punto de venta; se bloquea si alguna venta lo referencia.
func (uc *PointOfSaleUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.locked(ctx, companyID, id, func(s repository.Stores, p *entity.PointOfSale) error {
		if err := guardPointOfSale(ctx, s, companyID, p.ID); err != nil {
			return err
		}
		p.Active = false
		p.UpdatedAt = time.Now().UTC()
		return s.PointsOfSale.Update(ctx, p)
	})
}

func (uc *PointOfSaleUseCase) locked(ctx context.Context, companyID, id string, fn func(repository.Stores, *entity.PointOfSale) error) error {
	if err := validID(id); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(s repository.Stores) error {
		p, err := s.PointsOfSale.Lock(ctx, companyID, id, repository.LockUpdate)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		return fn(s, p)
	})
}

func guardPointOfSale(ctx context.Context, s repository.Stores, companyID, id string) error {
	n, err := s.Sales.CountByPointOfSale(ctx, companyID, id)
	if err != nil {
		return err
	}
	return blocked("punto de venta", n)
}

func (uc *PointOfSaleUseCase) load(ctx context.Context, companyID, id string) (*entity.PointOfSale, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toPointOfSaleResponse(p *entity.PointOfSale) *dto.PointOfSaleResponse {
	return &dto.PointOfSaleResponse{
		ID:        p.ID,
		Name:      p.Name,
		Location:  p.Location,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
