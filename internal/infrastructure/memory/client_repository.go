package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria; documento y email son únicos por empresa cuando existen.
type ClientRepo struct {
	s  *Store
	tx bool
}

func clientClash(st *state, c *entity.Client) bool {
	for _, o := range st.clients {
		if o.ID == c.ID || o.CompanyID != c.CompanyID {
			continue
		}
		if c.Document != "" && o.Document == c.Document {
			return true
		}
		if c.Email != "" && strings.EqualFold(o.Email, c.Email) {
			return true
		}
	}
	return false
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		if clientClash(st, c) {
			return domain.ErrDuplicate
		}
		st.clients[c.ID] = *c
		return nil
	})
}

func (r *ClientRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if c, ok := st.clients[id]; ok && c.CompanyID == companyID {
			out = &c
		}
		return nil
	})
	return out, err
}

// Lock las transacciones del almacén ya son serializables; equivale a GetByID.
func (r *ClientRepo) Lock(ctx context.Context, companyID, id string, _ repository.RowLock) (*entity.Client, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		cur, ok := st.clients[c.ID]
		if !ok || cur.CompanyID != c.CompanyID {
			return domain.ErrNotFound
		}
		if clientClash(st, c) {
			return domain.ErrDuplicate
		}
		next := *c
		next.CreatedAt = cur.CreatedAt
		st.clients[c.ID] = next
		return nil
	})
}

func (r *ClientRepo) List(ctx context.Context, companyID, search string, activeOnly bool, limit, offset int) ([]*entity.Client, int, error) {
	var all []*entity.Client
	err := r.s.with(ctx, r.tx, func(st *state) error {
		q := strings.ToLower(search)
		for _, c := range st.clients {
			if c.CompanyID != companyID || (activeOnly && !c.Active) {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(c.Name), q) &&
				!strings.Contains(c.Document, q) && !strings.Contains(strings.ToLower(c.Email), q) {
				continue
			}
			c := c
			all = append(all, &c)
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
