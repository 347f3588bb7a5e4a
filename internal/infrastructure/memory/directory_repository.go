package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.PointOfSaleRepository = (*PointOfSaleRepo)(nil)
	_ repository.CompanyRepository     = (*CompanyRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
)

// CategoryRepo categorías; el nombre es único por empresa sin distinguir mayúsculas.
type CategoryRepo struct {
	s  *Store
	tx bool
}

func categoryClash(st *state, c *entity.Category) bool {
	for _, o := range st.categories {
		if o.ID != c.ID && o.CompanyID == c.CompanyID && strings.EqualFold(o.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if categoryClash(st, c) {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if c, ok := st.categories[id]; ok && c.CompanyID == companyID {
			out = &c
		}
		return nil
	})
	return out, err
}

// Lock las transacciones del almacén ya son serializables; equivale a GetByID.
func (r *CategoryRepo) Lock(ctx context.Context, companyID, id string, _ repository.RowLock) (*entity.Category, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *CategoryRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, c := range st.categories {
			if c.CompanyID == companyID && strings.EqualFold(c.Name, name) {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok || cur.CompanyID != c.CompanyID {
			return domain.ErrNotFound
		}
		if categoryClash(st, c) {
			return domain.ErrDuplicate
		}
		next := *c
		next.CreatedAt = cur.CreatedAt
		st.categories[c.ID] = next
		return nil
	})
}

func (r *CategoryRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, c := range st.categories {
			if c.CompanyID == companyID && (c.Active || !activeOnly) {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// SupplierRepo proveedores; el documento es único por empresa cuando existe.
type SupplierRepo struct {
	s  *Store
	tx bool
}

func supplierClash(st *state, s *entity.Supplier) bool {
	if s.Document == "" {
		return false
	}
	for _, o := range st.suppliers {
		if o.ID != s.ID && o.CompanyID == s.CompanyID && o.Document == s.Document {
			return true
		}
	}
	return false
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if supplierClash(st, s) {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if s, ok := st.suppliers[id]; ok && s.CompanyID == companyID {
			out = &s
		}
		return nil
	})
	return out, err
}

// Lock las transacciones del almacén ya son serializables; equivale a GetByID.
func (r *SupplierRepo) Lock(ctx context.Context, companyID, id string, _ repository.RowLock) (*entity.Supplier, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.suppliers[s.ID]
		if !ok || cur.CompanyID != s.CompanyID {
			return domain.ErrNotFound
		}
		if supplierClash(st, s) {
			return domain.ErrDuplicate
		}
		next := *s
		next.CreatedAt = cur.CreatedAt
		st.suppliers[s.ID] = next
		return nil
	})
}

func (r *SupplierRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, s := range st.suppliers {
			if s.CompanyID == companyID && (s.Active || !activeOnly) {
				s := s
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// PointOfSaleRepo puntos de venta; nombre único por empresa.
type PointOfSaleRepo struct {
	s  *Store
	tx bool
}

func posClash(st *state, p *entity.PointOfSale) bool {
	for _, o := range st.pos {
		if o.ID != p.ID && o.CompanyID == p.CompanyID && strings.EqualFold(o.Name, p.Name) {
			return true
		}
	}
	return false
}

func (r *PointOfSaleRepo) Create(ctx context.Context, p *entity.PointOfSale) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if posClash(st, p) {
			return domain.ErrDuplicate
		}
		st.pos[p.ID] = *p
		return nil
	})
}

func (r *PointOfSaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PointOfSale, error) {
	var out *entity.PointOfSale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if p, ok := st.pos[id]; ok && p.CompanyID == companyID {
			out = &p
		}
		return nil
	})
	return out, err
}

// Lock las transacciones del almacén ya son serializables; equivale a GetByID.
func (r *PointOfSaleRepo) Lock(ctx context.Context, companyID, id string, _ repository.RowLock) (*entity.PointOfSale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *PointOfSaleRepo) Update(ctx context.Context, p *entity.PointOfSale) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.pos[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		if posClash(st, p) {
			return domain.ErrDuplicate
		}
		next := *p
		next.CreatedAt = cur.CreatedAt
		st.pos[p.ID] = next
		return nil
	})
}

func (r *PointOfSaleRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.PointOfSale, error) {
	var out []*entity.PointOfSale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.pos {
			if p.CompanyID == companyID && (p.Active || !activeOnly) {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// CompanyRepo empresas; el documento es único global.
type CompanyRepo struct {
	s  *Store
	tx bool
}

func companyClash(st *state, c *entity.Company) bool {
	if c.Document == "" {
		return false
	}
	for _, o := range st.companies {
		if o.ID != c.ID && o.Document == c.Document {
			return true
		}
	}
	return false
}

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if companyClash(st, c) {
			return domain.ErrDuplicate
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.companies[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if companyClash(st, c) {
			return domain.ErrDuplicate
		}
		next := *c
		next.CreatedAt = cur.CreatedAt
		st.companies[c.ID] = next
		return nil
	})
}

func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, c := range st.companies {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *CompanyRepo) CountDependents(ctx context.Context, id string) (repository.CompanyDependents, error) {
	var d repository.CompanyDependents
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == id && p.Active {
				d.Products++
			}
		}
		for _, u := range st.users {
			if u.CompanyID == id && u.Status == entity.UserActive {
				d.Users++
			}
		}
		for _, c := range st.clients {
			if c.CompanyID == id && c.Active {
				d.Clients++
			}
		}
		return nil
	})
	return d, err
}

// UserRepo usuarios; el email es único en todo el sistema.
type UserRepo struct {
	s  *Store
	tx bool
}

func userClash(st *state, u *entity.User) bool {
	for _, o := range st.users {
		if o.ID != u.ID && strings.EqualFold(o.Email, u.Email) {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if userClash(st, u) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, companyID, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if u, ok := st.users[id]; ok && u.CompanyID == companyID {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok || cur.CompanyID != u.CompanyID {
			return domain.ErrNotFound
		}
		if userClash(st, u) {
			return domain.ErrEmailAlreadyExists
		}
		next := *u
		next.CreatedAt = cur.CreatedAt
		st.users[u.ID] = next
		return nil
	})
}

func (r *UserRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.CompanyID == companyID {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}
