// Package retry reintenta operaciones transaccionales que fallaron por contención.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/eapache/go-resiliency/retrier"

	"github.com/jhoicas/stockpro/internal/domain"
)

// Policy número de reintentos y espera inicial (se duplica en cada intento).
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
}

// transientClassifier solo reintenta domain.ErrTransient.
type transientClassifier struct{}

func (transientClassifier) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case errors.Is(err, domain.ErrTransient):
		return retrier.Retry
	default:
		return retrier.Fail
	}
}

// Transient ejecuta fn y la repite mientras devuelva un error transitorio, hasta MaxRetries veces.
// onRetry (opcional) se invoca antes de cada reintento con el número de intento (1..n).
func Transient(ctx context.Context, p Policy, onRetry func(attempt int, err error), fn func(ctx context.Context) error) error {
	if p.MaxRetries <= 0 {
		return fn(ctx)
	}
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = 25 * time.Millisecond
	}
	var last error
	r := retrier.New(retrier.ExponentialBackoff(p.MaxRetries, backoff), transientClassifier{})
	err := r.RunFn(ctx, func(ctx context.Context, retries int) error {
		if retries > 0 && onRetry != nil {
			onRetry(retries, last)
		}
		last = fn(ctx)
		return last
	})
	if err != nil && last != nil && !errors.Is(err, last) {
		// el contexto expiró durante la espera: se informa el último error del trabajo
		return last
	}
	return err
}
