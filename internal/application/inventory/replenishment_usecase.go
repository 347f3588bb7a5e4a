package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/domain/inventory"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

const replenishmentScan = 500 // tope de productos con stock bajo considerados

// ReplenishmentUseCase genera la lista de reposición de la empresa.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos con stock bajo con la cantidad sugerida de pedido
// y su costo estimado. Prioridad: agotados primero, luego mayor déficit frente al mínimo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, companyID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	low, err := uc.productRepo.ListLowStock(ctx, companyID, replenishmentScan)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		ideal, qty := inventory.SuggestReorder(p.Stock, p.MinStock)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			Code:               p.Code,
			ProductName:        p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(qty)).Round(2),
			OutOfStock:         p.IsOutOfStock(),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.OutOfStock != b.OutOfStock {
			return a.OutOfStock
		}
		defA, defB := a.MinStock-a.CurrentStock, b.MinStock-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.ProductName < b.ProductName
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
