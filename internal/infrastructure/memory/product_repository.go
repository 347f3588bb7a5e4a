package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		for _, o := range st.products {
			if o.CompanyID == p.CompanyID && o.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok && p.CompanyID == companyID {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate el lock global ya serializa; solo respeta el orden por ID del contrato.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID string, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		seen := map[string]bool{}
		for _, id := range ids {
			if p, ok := st.products[id]; ok && p.CompanyID == companyID && !seen[id] {
				seen[id] = true
				p := p
				out = append(out, &p)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		for _, o := range st.products {
			if o.ID != p.ID && o.CompanyID == p.CompanyID && o.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		next := *p
		next.Stock = cur.Stock
		next.CostPrice = cur.CostPrice
		next.CreatedAt = cur.CreatedAt
		st.products[p.ID] = next
		return nil
	})
}

func (r *ProductRepo) UpdateStock(ctx context.Context, companyID, id string, stock int64) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if stock < 0 {
			return domain.ErrInvalidInput
		}
		p.Stock = stock
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		p.CostPrice = cost
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, companyID string, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var all []*entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, p := range st.products {
			if p.CompanyID != companyID ||
				(f.ActiveOnly && !p.Active) ||
				(f.CategoryID != "" && p.CategoryID != f.CategoryID) ||
				(f.SupplierID != "" && p.SupplierID != f.SupplierID) ||
				(search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search)) {
				continue
			}
			p := p
			all = append(all, &p)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), len(all), err
}

func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.Active && p.IsLowStock() {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), err
}

func (r *ProductRepo) countActive(ctx context.Context, match func(p entity.Product) bool) (int, error) {
	n := 0
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.Active && match(p) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) CountActiveByCategory(ctx context.Context, companyID, categoryID string) (int, error) {
	return r.countActive(ctx, func(p entity.Product) bool {
		return p.CompanyID == companyID && p.CategoryID == categoryID
	})
}

func (r *ProductRepo) CountActiveBySupplier(ctx context.Context, companyID, supplierID string) (int, error) {
	return r.countActive(ctx, func(p entity.Product) bool {
		return p.CompanyID == companyID && p.SupplierID == supplierID
	})
}
