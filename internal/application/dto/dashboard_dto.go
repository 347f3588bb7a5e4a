package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Conteos de registros activos
	Totals DashboardTotalsDTO `json:"totals"`

	// Ventas finalizadas por período
	Today      PeriodSalesDTO `json:"today"`
	Month      PeriodSalesDTO `json:"month"`
	Last30Days PeriodSalesDTO `json:"last_30_days"`

	LowStock        []ProductResponse  `json:"low_stock"`        // top 5, menor stock primero
	RecentSales     []SaleResponse     `json:"recent_sales"`     // 5 más recientes
	RecentMovements []MovementResponse `json:"recent_movements"` // 5 más recientes

	DateLabel   string    `json:"date_label"` // ej: "Febrero 2026"
	GeneratedAt time.Time `json:"generated_at"`
}

// DashboardTotalsDTO conteos del directorio.
type DashboardTotalsDTO struct {
	Products   int `json:"products"`
	Clients    int `json:"clients"`
	Categories int `json:"categories"`
	Suppliers  int `json:"suppliers"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// PeriodSalesDTO cantidad e ingreso de ventas en un rango.
type PeriodSalesDTO struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}
