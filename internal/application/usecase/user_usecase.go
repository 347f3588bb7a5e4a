package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

// UserUseCase administración de usuarios de la empresa (solo admin).
type UserUseCase struct {
	repo     repository.UserRepository
	saleRepo repository.SaleRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, saleRepo repository.SaleRepository) *UserUseCase {
	return &UserUseCase{repo: repo, saleRepo: saleRepo}
}

// Create crea un usuario en la empresa de quien llama. El email es único en todo el sistema.
func (uc *UserUseCase) Create(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "rol desconocido %q", in.Role)
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("password", "mínimo 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Status:       entity.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// GetByID obtiene un usuario de la empresa.
func (uc *UserUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// Update cambia nombre, rol, estado o password. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, companyID, callerID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.Invalid("role", "rol desconocido %q", *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != entity.UserActive && *in.Status != entity.UserInactive {
			return nil, domain.Invalid("status", "debe ser active o inactive")
		}
		if *in.Status == entity.UserInactive && id == callerID {
			return nil, fmt.Errorf("no puede desactivarse a sí mismo: %w", domain.ErrConflict)
		}
		user.Status = *in.Status
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, domain.Invalid("password", "mínimo 8 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// List usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.FromUser(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete desactiva el usuario; se bloquea si registró ventas.
func (uc *UserUseCase) Delete(ctx context.Context, companyID, callerID, id string) error {
	user, err := uc.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if id == callerID {
		return fmt.Errorf("no puede eliminarse a sí mismo: %w", domain.ErrConflict)
	}
	n, err := uc.saleRepo.CountByUser(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := blocked("usuario", n); err != nil {
		return err
	}
	user.Status = entity.UserInactive
	user.UpdatedAt = time.Now().UTC()
	return uc.repo.Update(ctx, user)
}

func (uc *UserUseCase) load(ctx context.Context, companyID, id string) (*entity.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
