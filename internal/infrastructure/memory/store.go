// Package memory implementa los puertos de repositorio en memoria con semántica transaccional:
// un único lock para todo el almacén (serializable) y rollback por snapshot. Sirve para
// desarrollo local (STORAGE_DRIVER=memory) y para los tests de casos de uso.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

type state struct {
	companies  map[string]entity.Company
	users      map[string]entity.User
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	clients    map[string]entity.Client
	pos        map[string]entity.PointOfSale
	products   map[string]entity.Product
	sales      map[string]entity.Sale
	movements  []entity.StockMovement
	sequences  map[string]int64
	lastSeq    int64
}

func newState() *state {
	return &state{
		companies:  map[string]entity.Company{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
		clients:    map[string]entity.Client{},
		pos:        map[string]entity.PointOfSale{},
		products:   map[string]entity.Product{},
		sales:      map[string]entity.Sale{},
		sequences:  map[string]int64{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copia superficial por valor; las líneas de venta nunca se mutan en sitio.
func (s *state) clone() *state {
	return &state{
		companies:  cloneMap(s.companies),
		users:      cloneMap(s.users),
		categories: cloneMap(s.categories),
		suppliers:  cloneMap(s.suppliers),
		clients:    cloneMap(s.clients),
		pos:        cloneMap(s.pos),
		products:   cloneMap(s.products),
		sales:      cloneMap(s.sales),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		sequences:  cloneMap(s.sequences),
		lastSeq:    s.lastSeq,
	}
}

// Store almacén en memoria. El semáforo de capacidad 1 hace de lock global y permite
// abandonar la espera cuando el contexto expira.
type Store struct {
	sem chan struct{}
	st  *state
	mu  sync.Mutex // protege el puntero st frente a lecturas de diagnóstico
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{sem: make(chan struct{}, 1), st: newState()}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrTransient, ctx.Err())
	}
}

func (s *Store) release() { <-s.sem }

func (s *Store) current() *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Store) swap(st *state) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

// with ejecuta fn sobre el estado. Dentro de una transacción el lock ya está tomado.
func (s *Store) with(ctx context.Context, inTx bool, fn func(st *state) error) error {
	if !inTx {
		if err := s.acquire(ctx); err != nil {
			return err
		}
		defer s.release()
	}
	return fn(s.current())
}

var _ repository.TxRunner = (*Store)(nil)

// Run serializa transacciones; si fn falla se restaura el snapshot tomado al inicio.
func (s *Store) Run(ctx context.Context, fn func(repository.Stores) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	snapshot := s.current().clone()
	err := fn(repository.Stores{
		Products:     &ProductRepo{s: s, tx: true},
		Movements:    &StockMovementRepo{s: s, tx: true},
		Sales:        &SaleRepo{s: s, tx: true},
		Clients:      &ClientRepo{s: s, tx: true},
		Sequences:    &SequenceRepo{s: s, tx: true},
		Categories:   &CategoryRepo{s: s, tx: true},
		Suppliers:    &SupplierRepo{s: s, tx: true},
		PointsOfSale: &PointOfSaleRepo{s: s, tx: true},
	})
	if err == nil {
		err = ctx.Err()
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
	}
	if err != nil {
		s.swap(snapshot)
		return err
	}
	return nil
}

// Repositorios fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }
func (s *Store) Sequences() *SequenceRepo { return &SequenceRepo{s: s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) PointsOfSale() *PointOfSaleRepo { return &PointOfSaleRepo{s: s} }
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{s: s} }

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
