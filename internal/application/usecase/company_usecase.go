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

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
// Lectura y modificación quedan acotadas a la empresa de quien llama.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el documento ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	document := normalizeDocument(in.Document)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	if document == "" {
		return nil, domain.Invalid("document", "es obligatorio")
	}
	now := time.Now().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Document:  document,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     strings.TrimSpace(in.Email),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa; solo la propia.
func (uc *CompanyUseCase) GetByID(ctx context.Context, callerCompanyID, id string) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, callerCompanyID, id)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Update actualiza datos de contacto o estado. El documento no cambia.
func (uc *CompanyUseCase) Update(ctx context.Context, callerCompanyID, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, callerCompanyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		company.Name = strings.TrimSpace(*in.Name)
		if company.Name == "" {
			return nil, domain.Invalid("name", "no puede quedar vacío")
		}
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	if in.Active != nil && !*in.Active && company.Active {
		if err := uc.guard(ctx, company.ID); err != nil {
			return nil, err
		}
	}
	if in.Active != nil {
		company.Active = *in.Active
	}
	company.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// List devuelve la empresa de quien llama (un tenant no ve a los demás).
func (uc *CompanyUseCase) List(ctx context.Context, callerCompanyID string) (*dto.CompanyListResponse, error) {
	company, err := uc.repo.GetByID(ctx, callerCompanyID)
	if err != nil {
		return nil, err
	}
	items := []dto.CompanyResponse{}
	if company != nil {
		items = append(items, *entityToCompanyResponse(company))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Offset: 0, Total: len(items)},
	}, nil
}

// Delete desactiva la empresa; se bloquea mientras tenga productos, usuarios o clientes activos.
func (uc *CompanyUseCase) Delete(ctx context.Context, callerCompanyID, id string) error {
	company, err := uc.load(ctx, callerCompanyID, id)
	if err != nil {
		return err
	}
	if err := uc.guard(ctx, company.ID); err != nil {
		return err
	}
	company.Active = false
	company.UpdatedAt = time.Now().UTC()
	return uc.repo.Update(ctx, company)
}

func (uc *CompanyUseCase) guard(ctx context.Context, id string) error {
	deps, err := uc.repo.CountDependents(ctx, id)
	if err != nil {
		return err
	}
	return blocked("empresa", deps.Total())
}

func (uc *CompanyUseCase) load(ctx context.Context, callerCompanyID, id string) (*entity.Company, error) {
	if id != callerCompanyID {
		return nil, domain.ErrNotFound
	}
	if err := validID(id); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
