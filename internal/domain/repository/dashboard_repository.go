package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DirectoryTotals conteos de registros activos de la empresa.
type DirectoryTotals struct {
	Products   int
	Clients    int
	Categories int
	Suppliers  int
	LowStock   int
	OutOfStock int
}

// SalesTotals ventas finalizadas en un rango.
type SalesTotals struct {
	Count   int
	Revenue decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el dashboard.
type DashboardRepository interface {
	GetTotals(ctx context.Context, companyID string) (DirectoryTotals, error)
	// GetSalesTotals solo cuenta ventas finalizadas con created_at en [from, to).
	GetSalesTotals(ctx context.Context, companyID string, from, to time.Time) (SalesTotals, error)
}
