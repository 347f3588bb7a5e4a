package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/pkg/logger"
)

const afterCommitTimeout = 3 * time.Second

// AfterCommit efectos posteriores a un commit: invalida el resumen del dashboard y publica eventos.
// Los fallos se registran y no se propagan: la operación ya es durable.
type AfterCommit struct {
	Publisher EventPublisher
	Cache     Cache
	Log       *logger.Logger
}

// Dispatch no depende de la cancelación del request original.
func (a AfterCommit) Dispatch(ctx context.Context, companyID string, events ...event.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	if a.Cache != nil {
		if err := a.Cache.Delete(ctx, DashboardKey(companyID)); err != nil && a.Log != nil {
			a.Log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar la caché del dashboard")
		}
	}
	if a.Publisher == nil || len(events) == 0 {
		return
	}
	if err := a.Publisher.Publish(ctx, events...); err != nil && a.Log != nil {
		a.Log.Error().Err(err).Str("company_id", companyID).Int("events", len(events)).Msg("publicación de eventos fallida")
	}
}
