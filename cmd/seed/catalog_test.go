package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/internal/infrastructure/memory"
	"github.com/jhoicas/stockpro/pkg/logger"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return bytes.NewReader([]byte(b))
}

func TestReadCatalog_Latin1YFormatosDeMonto(t *testing.T) {
	in := "codigo;nombre;categoria;costo;precio;stock;stock_minimo;unidad\n" +
		"A01;Café molido 500g;Bebidas;1.234,50;1500;10;2;un\n" +
		"A02;Azúcar;;3.2;4,75;;;\n" +
		";;;;;;;\n"

	rows, err := readCatalog(latin1(t, in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Café molido 500g", rows[0].Product.Name)
	assert.Equal(t, "Bebidas", rows[0].Category)
	assert.Equal(t, "1234.5", rows[0].Product.CostPrice.String())
	assert.Equal(t, "1500", rows[0].Product.SalePrice.String())
	assert.Equal(t, int64(10), rows[0].Product.InitialStock)
	assert.Equal(t, int64(2), rows[0].Product.MinStock)

	assert.Equal(t, "Azúcar", rows[1].Product.Name)
	assert.Equal(t, "3.2", rows[1].Product.CostPrice.String())
	assert.Equal(t, "4.75", rows[1].Product.SalePrice.String())
	assert.Zero(t, rows[1].Product.InitialStock)
	assert.Equal(t, 3, rows[1].Line)
}

func TestReadCatalog_FilasInvalidasSeReportanYLasDemasSeConservan(t *testing.T) {
	in := "B01;Jugo;Bebidas;1;2;-3;0;un\n" +
		"B02;;Bebidas;1;2;3;0;un\n" +
		"B03;Agua;Bebidas;1;abc;3;0;un\n" +
		"B04;Solo dos\n" +
		"B05;Té;Bebidas;1;2;3;0;un\n"

	rows, err := readCatalog(latin1(t, in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 1")
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "línea 3")
	assert.Contains(t, err.Error(), "línea 4")
	require.Len(t, rows, 1)
	assert.Equal(t, "B05", rows[0].Product.Code)
}

func TestImporter_CreaCategoriasYRegistraElStockInicial(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	companyID := uuid.NewString()

	existing := &entity.Category{ID: uuid.NewString(), CompanyID: companyID, Name: "Limpieza", Active: true}
	require.NoError(t, store.Categories().Create(ctx, existing))

	imp := importer{
		companyID:  companyID,
		userID:     uuid.NewString(),
		categories: store.Categories(),
		categoryUC: usecase.NewCategoryUseCase(store, store.Categories()),
		productUC:  usecase.NewProductUseCase(store, store.Products(), ports.NopCache{}, logger.Nop()),
		log:        logger.Nop(),
	}

	rows, err := readCatalog(latin1(t, "C01;Café;Bebidas;1;2;5;1;un\n"+
		"C02;Té;bebidas;1;2;0;1;un\n"+
		"C03;Jabón;Limpieza;1;2;4;0;un\n"+
		"C01;Café repetido;Bebidas;1;2;9;1;un\n"))
	require.NoError(t, err)

	res, err := imp.run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.created)
	assert.Equal(t, 1, res.skipped, "código duplicado")
	assert.Equal(t, 1, res.categories, "Bebidas una sola vez; Limpieza ya existía")

	cats, err := store.Categories().List(ctx, companyID, false)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	movs, err := store.Movements().List(ctx, companyID, repository.MovementFilter{Kind: entity.MovementEntry}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "solo los productos con stock inicial generan entrada")
	var total int64
	for _, m := range movs {
		total += m.Quantity
	}
	assert.Equal(t, int64(9), total)
}
