package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	id := Identity{UserID: "u-1", CompanyID: "c-1", Role: "bodeguero"}
	tok, err := Generate(secret, id, "stockpro-test", time.Hour)
	require.NoError(t, err)

	got, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_Rechazos(t *testing.T) {
	id := Identity{UserID: "u-1", CompanyID: "c-1", Role: "admin"}

	expired, err := Generate(secret, id, "stockpro-test", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken, "token expirado")

	valid, err := Generate(secret, id, "stockpro-test", time.Hour)
	require.NoError(t, err)
	_, err = Parse("otro-secret", valid)
	assert.ErrorIs(t, err, ErrInvalidToken, "firma con otro secreto")

	noCompany, err := Generate(secret, Identity{UserID: "u-1"}, "stockpro-test", time.Hour)
	require.NoError(t, err)
	_, err = Parse(secret, noCompany)
	assert.ErrorIs(t, err, ErrInvalidToken, "sin empresa no hay tenant")

	_, err = Generate("", id, "x", time.Hour)
	assert.Error(t, err)
}
