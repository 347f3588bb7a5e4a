package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaleRejectedError_IsSegunMotivo(t *testing.T) {
	err := fmt.Errorf("crear venta: %w", &SaleRejectedError{Failures: []LineFailure{
		{Index: 0, ProductID: "p1", Reason: ReasonInsufficientStock, Requested: 4, Available: 1},
		{Index: 2, ProductID: "p9", Reason: ReasonProductNotFound},
	}})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput), "no hay cantidades inválidas")

	var rejected *SaleRejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Len(t, rejected.Failures, 2)
	assert.True(t, rejected.HasReason(ReasonProductNotFound))
	assert.Contains(t, err.Error(), "línea 0: insufficient_stock")
}

func TestSaleRejectedError_ClienteEsFalloDeCabecera(t *testing.T) {
	err := &SaleRejectedError{Failures: []LineFailure{{Index: -1, Reason: ReasonClientNotFound}}}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "venta rechazada (client_not_found)", err.Error())
}

func TestReferenceAndValidationErrors(t *testing.T) {
	ref := fmt.Errorf("eliminar: %w", &ReferenceError{Entity: "categoría", Dependents: 3})
	assert.ErrorIs(t, ref, ErrReferentialConstraint)
	assert.Contains(t, ref.Error(), "3 registro(s)")

	v := Invalid("discount", "no puede superar el subtotal %s", "10.00")
	assert.ErrorIs(t, v, ErrInvalidInput)
	assert.Equal(t, "discount: no puede superar el subtotal 10.00", v.Error())
}
