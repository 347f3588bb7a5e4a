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

// ClientUseCase casos de uso CRUD para clientes. Documento y email son únicos por empresa.
type ClientUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(txRunner repository.TxRunner, repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{txRunner: txRunner, repo: repo}
}

func (uc *ClientUseCase) Create(ctx context.Context, companyID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	kind := in.Kind
	if kind == "" {
		kind = entity.ClientPerson
	}
	if kind != entity.ClientPerson && kind != entity.ClientCompany {
		return nil, domain.Invalid("kind", "debe ser person o company")
	}
	now := time.Now().UTC()
	c := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Kind:      kind,
		Document:  normalizeDocument(in.Document),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	setAddress(c, in.Address)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ClientResponse, error) {
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "no puede quedar vacío")
	}
	if in.Kind != nil && *in.Kind != entity.ClientPerson && *in.Kind != entity.ClientCompany {
		return nil, domain.Invalid("kind", "debe ser person o company")
	}
	var out *entity.Client
	err := uc.locked(ctx, companyID, id, func(s repository.Stores, c *entity.Client) error {
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Kind != nil {
			c.Kind = *in.Kind
		}
		if in.Document != nil {
			c.Document = normalizeDocument(*in.Document)
		}
		if in.Email != nil {
			c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if in.Phone != nil {
			c.Phone = *in.Phone
		}
		if in.Address != nil {
			setAddress(c, *in.Address)
		}
		if in.Active != nil && !*in.Active && c.Active {
			if err := guardClient(ctx, s, companyID, c.ID); err != nil {
				return err
			}
		}
		if in.Active != nil {
			c.Active = *in.Active
		}
		c.UpdatedAt = time.Now().UTC()
		out = c
		return s.Clients.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(out), nil
}

func (uc *ClientUseCase) List(ctx context.Context, companyID string, in dto.ClientFilterRequest) (*dto.ClientListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, companyID, strings.TrimSpace(in.Search), !in.All, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete desactiva el cliente; se bloquea mientras tenga ventas, incluso canceladas.
func (uc *ClientUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.locked(ctx, companyID, id, func(s repository.Stores, c *entity.Client) error {
		if err := guardClient(ctx, s, companyID, c.ID); err != nil {
			return err
		}
		c.Active = false
		c.UpdatedAt = time.Now().UTC()
		return s.Clients.Update(ctx, c)
	})
}

func (uc *ClientUseCase) locked(ctx context.Context, companyID, id string, fn func(repository.Stores, *entity.Client) error) error {
	if err := validID(id); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(s repository.Stores) error {
		c, err := s.Clients.Lock(ctx, companyID, id, repository.LockUpdate)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		return fn(s, c)
	})
}

func guardClient(ctx context.Context, s repository.Stores, companyID, id string) error {
	n, err := s.Sales.CountByClient(ctx, companyID, id)
	if err != nil {
		return err
	}
	return blocked("cliente", n)
}

func (uc *ClientUseCase) load(ctx context.Context, companyID, id string) (*entity.Client, error) {
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

// normalizeDocument quita puntos, guiones, barras y espacios (CPF/CNPJ, NIT).
func normalizeDocument(doc string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(doc))
}

func setAddress(c *entity.Client, a dto.ClientAddress) {
	c.Street = a.Street
	c.Number = a.Number
	c.District = a.District
	c.City = a.City
	c.State = a.State
	c.ZipCode = a.ZipCode
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		Kind:     c.Kind,
		Document: c.Document,
		Email:    c.Email,
		Phone:    c.Phone,
		Address: dto.ClientAddress{
			Street:   c.Street,
			Number:   c.Number,
			District: c.District,
			City:     c.City,
			State:    c.State,
			ZipCode:  c.ZipCode,
		},
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
