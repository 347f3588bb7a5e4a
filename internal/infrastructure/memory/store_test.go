package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

func newProduct(companyID, code string, stock int64) *entity.Product {
	return &entity.Product{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Code:      code,
		Name:      "Producto " + code,
		Stock:     stock,
		Active:    true,
	}
}

func TestRun_RollbackRestauraElSnapshot(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	p := newProduct(companyID, "0001", 10)
	require.NoError(t, s.Products().Create(ctx, p))

	boom := errors.New("boom")
	err := s.Run(ctx, func(st repository.Stores) error {
		require.NoError(t, st.Products.UpdateStock(ctx, companyID, p.ID, 3))
		require.NoError(t, st.Movements.Append(ctx, entity.NewMovement(companyID, p.ID, -7, "venta", "", time.Now())))
		_, err := st.Sequences.Next(ctx, companyID, repository.SequenceSale)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(ctx, companyID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
	movs, err := s.Movements().List(ctx, companyID, repository.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
	n, err := s.Sequences().Next(ctx, companyID, repository.SequenceSale)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el número consumido en la transacción fallida se devuelve")
}

func TestRun_ContextoVencidoEsTransitorio(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	companyID := uuid.NewString()
	p := newProduct(companyID, "0001", 5)
	require.NoError(t, s.Products().Create(context.Background(), p))

	err := s.Run(ctx, func(st repository.Stores) error {
		cancel()
		return st.Products.UpdateStock(ctx, companyID, p.ID, 0)
	})
	assert.ErrorIs(t, err, domain.ErrTransient)

	got, _ := s.Products().GetByID(context.Background(), companyID, p.ID)
	assert.Equal(t, int64(5), got.Stock, "no se confirma tras vencer el contexto")
}

func TestRun_EsperaDelLockRespetaElContexto(t *testing.T) {
	s := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Run(context.Background(), func(repository.Stores) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Run(ctx, func(repository.Stores) error { return nil })
	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestGetForUpdate_OrdenPorIDYOmiteInexistentes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	a := newProduct(companyID, "A", 1)
	b := newProduct(companyID, "B", 1)
	require.NoError(t, s.Products().Create(ctx, a))
	require.NoError(t, s.Products().Create(ctx, b))

	err := s.Run(ctx, func(st repository.Stores) error {
		list, err := st.Products.GetForUpdate(ctx, companyID, []string{b.ID, uuid.NewString(), a.ID})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Less(t, list[0].ID, list[1].ID)
		return nil
	})
	require.NoError(t, err)

	other, err := s.Products().GetForUpdate(ctx, uuid.NewString(), []string{a.ID})
	require.NoError(t, err)
	assert.Empty(t, other, "aislado por empresa")
}

func TestProducts_CodigoUnicoPorEmpresa(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	require.NoError(t, s.Products().Create(ctx, newProduct(companyID, "0001", 0)))
	assert.ErrorIs(t, s.Products().Create(ctx, newProduct(companyID, "0001", 0)), domain.ErrDuplicate)
	assert.NoError(t, s.Products().Create(ctx, newProduct(uuid.NewString(), "0001", 0)))
}

func TestMovements_OrdenYSaldoNeto(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()
	productID := uuid.NewString()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, delta := range []int64{10, -3, -2} {
		require.NoError(t, s.Movements().Append(ctx, entity.NewMovement(companyID, productID, delta, "x", "", at)))
	}
	require.NoError(t, s.Movements().Append(ctx, entity.NewMovement(companyID, productID, 1, "antiguo", "", at.Add(-time.Hour))))

	list, err := s.Movements().List(ctx, companyID, repository.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, int64(3), list[0].Seq, "a igual fecha, el último insertado primero")
	assert.Equal(t, int64(2), list[1].Seq)
	assert.Equal(t, int64(1), list[2].Seq)
	assert.Equal(t, "antiguo", list[3].Reason)

	net, err := s.Movements().NetQuantity(ctx, companyID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), net)

	from := at
	list, err = s.Movements().List(ctx, companyID, repository.MovementFilter{From: &from, Kind: entity.MovementExit}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSequences_IndependientesPorEmpresaYNombre(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	n, _ := s.Sequences().Next(ctx, a, repository.SequenceSale)
	assert.Equal(t, int64(1), n)
	n, _ = s.Sequences().Next(ctx, a, repository.SequenceSale)
	assert.Equal(t, int64(2), n)
	n, _ = s.Sequences().Next(ctx, b, repository.SequenceSale)
	assert.Equal(t, int64(1), n)
	n, _ = s.Sequences().Next(ctx, a, repository.SequenceProductCode)
	assert.Equal(t, int64(1), n)
}
