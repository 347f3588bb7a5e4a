package dto

import "github.com/jhoicas/stockpro/internal/domain/entity"

// Conversores entidad -> respuesta compartidos por varios casos de uso.

func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		UnitMeasure: p.UnitMeasure,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.IsLowStock(),
		OutOfStock:  p.IsOutOfStock(),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromProducts(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		Seq:       m.Seq,
		ProductID: m.ProductID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func FromMovements(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}

func FromSale(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Number:        s.Number,
		NumberLabel:   s.NumberLabel,
		ClientID:      s.ClientID,
		UserID:        s.UserID,
		PointOfSaleID: s.PointOfSaleID,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		Status:        s.Status,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
		CancelledAt:   s.CancelledAt,
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			Position:    l.Position,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return resp
}

func FromSales(list []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSale(s))
	}
	return out
}

func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
