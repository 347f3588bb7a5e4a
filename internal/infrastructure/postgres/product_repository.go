package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, code, name, description, category_id, supplier_id,
	cost_price, sale_price, unit_measure, stock, min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID, supplierID *string
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &categoryID, &supplierID,
		&p.CostPrice, &p.SalePrice, &p.UnitMeasure, &p.Stock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = orEmpty(categoryID)
	p.SupplierID = orEmpty(supplierID)
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.CompanyID, p.Code, p.Name, p.Description, nullable(p.CategoryID), nullable(p.SupplierID),
		p.CostPrice, p.SalePrice, p.UnitMeasure, p.Stock, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert product", err)
}

// GetByID obtiene un producto de la empresa por ID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get product", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por empresa y código.
func (r *ProductRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND code = $2`, companyID, code))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get product by code", err)
	}
	return p, nil
}

// GetForUpdate bloquea (SELECT FOR UPDATE) las filas en orden de ID para que dos ventas
// que tocan los mismos productos no se bloqueen mutuamente en orden cruzado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID string, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND id = ANY($2::uuid[])
		ORDER BY id
		FOR UPDATE`, companyID, ids)
	if err != nil {
		return nil, mapError("lock products", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, mapError("lock products", err)
	}
	return list, nil
}

// Update actualiza datos descriptivos y precios. No toca stock ni costo (se manejan vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET code = $3, name = $4, description = $5, category_id = $6, supplier_id = $7,
			sale_price = $8, unit_measure = $9, min_stock = $10, active = $11, updated_at = $12
		WHERE company_id = $1 AND id = $2`,
		p.CompanyID, p.ID, p.Code, p.Name, p.Description, nullable(p.CategoryID), nullable(p.SupplierID),
		p.SalePrice, p.UnitMeasure, p.MinStock, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock (el caller ya validó y tiene la fila bloqueada).
func (r *ProductRepo) UpdateStock(ctx context.Context, companyID, id string, stock int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, stock)
	if err != nil {
		return mapError("update product stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET cost_price = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, cost)
	return mapError("update product cost", err)
}

// List lista productos por empresa con filtros y paginación; devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, companyID string, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%d OR lower(code) LIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count products", err)
	}

	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT `+productColumns+` FROM products WHERE %s
		ORDER BY name, id LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, mapError("list products", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, mapError("list products", err)
	}
	return list, total, nil
}

// ListLowStock productos activos con stock <= min_stock, ordenados por stock ascendente.
func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND active AND stock <= min_stock
		ORDER BY stock ASC, name
		LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, mapError("list low stock", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, mapError("list low stock", err)
	}
	return list, nil
}

// CountActiveByCategory productos activos de una categoría.
func (r *ProductRepo) CountActiveByCategory(ctx context.Context, companyID, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE company_id = $1 AND category_id = $2 AND active`,
		companyID, categoryID).Scan(&n)
	return n, mapError("count products by category", err)
}

// CountActiveBySupplier productos activos de un proveedor.
func (r *ProductRepo) CountActiveBySupplier(ctx context.Context, companyID, supplierID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE company_id = $1 AND supplier_id = $2 AND active`,
		companyID, supplierID).Scan(&n)
	return n, mapError("count products by supplier", err)
}
