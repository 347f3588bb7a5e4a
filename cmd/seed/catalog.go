package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockpro/internal/application/dto"
)

// Columnas del CSV exportado por la planilla:
// codigo;nombre;categoria;costo;precio;stock;stock_minimo;unidad
const (
	colCode = iota
	colName
	colCategory
	colCost
	colPrice
	colStock
	colMinStock
	colUnit
	minColumns = colPrice + 1
)

// catalogRow producto leído del archivo, con la categoría por nombre.
type catalogRow struct {
	Line     int
	Category string
	Product  dto.CreateProductRequest
}

// readCatalog decodifica un CSV ISO-8859-1 separado por punto y coma.
// La primera fila se descarta si es encabezado.
func readCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []catalogRow
		errs []error
	)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if blank(rec) {
			continue
		}
		row, err := parseRow(line, rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

func isHeader(rec []string) bool {
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "codigo" || first == "código" || first == "code"
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(line int, rec []string) (catalogRow, error) {
	if len(rec) < minColumns {
		return catalogRow{}, fmt.Errorf("línea %d: se esperaban al menos %d columnas, hay %d", line, minColumns, len(rec))
	}
	field := func(i int) string {
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := catalogRow{
		Line:     line,
		Category: field(colCategory),
		Product: dto.CreateProductRequest{
			Code:        field(colCode),
			Name:        field(colName),
			UnitMeasure: field(colUnit),
		},
	}
	if row.Product.Name == "" {
		return catalogRow{}, fmt.Errorf("línea %d: nombre vacío", line)
	}

	var err error
	if row.Product.CostPrice, err = parseAmount(field(colCost)); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: costo: %w", line, err)
	}
	if row.Product.SalePrice, err = parseAmount(field(colPrice)); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: precio: %w", line, err)
	}
	if row.Product.InitialStock, err = parseQuantity(field(colStock)); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: stock: %w", line, err)
	}
	if row.Product.MinStock, err = parseQuantity(field(colMinStock)); err != nil {
		return catalogRow{}, fmt.Errorf("línea %d: stock mínimo: %w", line, err)
	}
	return row, nil
}

// parseAmount acepta "1234.5", "1234,50" y "1.234,50". Vacío = 0.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo %q", s)
	}
	return d, nil
}

func parseQuantity(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("cantidad inválida %q", s)
	}
	return n, nil
}
