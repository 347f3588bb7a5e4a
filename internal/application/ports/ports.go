// Package ports define los puertos de salida de la capa de aplicación que no son persistencia:
// publicación de eventos, caché del dashboard y métricas. Los adaptadores viven en infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stockpro/internal/domain/event"
)

// EventPublisher publica eventos de dominio después del commit.
// Un fallo de publicación nunca revierte la operación que lo originó.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.Event) error
}

// Cache almacenamiento clave/valor con expiración (cache-aside).
type Cache interface {
	// Get devuelve (nil, false, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Resultados de una venta para métricas.
const (
	OutcomeFinalized = "finalized"
	OutcomeRejected  = "rejected"
	OutcomeInvalid   = "invalid"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// Metrics contadores de negocio.
type Metrics interface {
	SaleProcessed(outcome string, d time.Duration)
	TxRetried(operation string)
	StockMoved(kind string, quantity int64)
}

// DashboardKey clave de caché del resumen de una empresa.
func DashboardKey(companyID string) string { return "dashboard:summary:" + companyID }

// NopPublisher descarta los eventos.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...event.Event) error { return nil }

// NopCache nunca encuentra nada.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error { return nil }

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) SaleProcessed(string, time.Duration) {}
func (NopMetrics) TxRetried(string) {}
func (NopMetrics) StockMoved(string, int64) {}
