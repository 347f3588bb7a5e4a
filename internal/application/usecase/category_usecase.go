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

// CategoryUseCase casos de uso CRUD para categorías. Las escrituras sobre una categoría
// existente bloquean su fila; el alta de productos la bloquea en modo compartido.
type CategoryUseCase struct {
	txRunner repository.TxRunner
	repo     repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(txRunner repository.TxRunner, repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{txRunner: txRunner, repo: repo}
}

// Create crea una categoría. El nombre es único por empresa.
func (uc *CategoryUseCase) Create(ctx context.Context, companyID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update actualiza nombre, descripción o estado.
func (uc *CategoryUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "no puede quedar vacío")
	}
	var out *entity.Category
	err := uc.locked(ctx, companyID, id, func(s repository.Stores, c *entity.Category) error {
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.Active != nil && !*in.Active && c.Active {
			if err := guardCategory(ctx, s, companyID, c.ID); err != nil {
				return err
			}
		}
		if in.Active != nil {
			c.Active = *in.Active
		}
		c.UpdatedAt = time.Now().UTC()
		out = c
		return s.Categories.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(out), nil
}

// List categorías de la empresa.
func (uc *CategoryUseCase) List(ctx context.Context, companyID string, all bool) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, companyID, !all)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete desactiva la categoría; se bloquea mientras tenga productos activos.
func (uc *CategoryUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.locked(ctx, companyID, id, func(s repository.Stores, c *entity.Category) error {
		if err := guardCategory(ctx, s, companyID, c.ID); err != nil {
			return err
		}
		c.Active = false
		c.UpdatedAt = time.Now().UTC()
		return s.Categories.Update(ctx, c)
	})
}

// locked ejecuta fn en una transacción con la categoría bloqueada para escritura.
func (uc *CategoryUseCase) locked(ctx context.Context, companyID, id string, fn func(repository.Stores, *entity.Category) error) error {
	if err := validID(id); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(s repository.Stores) error {
		c, err := s.Categories.Lock(ctx, companyID, id, repository.LockUpdate)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		return fn(s, c)
	})
}

func guardCategory(ctx context.Context, s repository.Stores, companyID, id string) error {
	n, err := s.Products.CountActiveByCategory(ctx, companyID, id)
	if err != nil {
		return err
	}
	return blocked("categoría", n)
}

func (uc *CategoryUseCase) load(ctx context.Context, companyID, id string) (*entity.Category, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
