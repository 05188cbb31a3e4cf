package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/rack-inventario-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RoleBodeguero, "rack-inventario", time.Hour)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok, "rack-inventario")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, pkgjwt.RoleBodeguero, claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RoleAdmin, "rack-inventario", time.Hour)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RoleAdmin, "rack-inventario", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
		issuer string
	}{
		{"firma incorrecta", "otro-secreto", valid, ""},
		{"expirado", secret, expired, ""},
		{"emisor distinto", secret, valid, "otro-emisor"},
		{"token mal formado", secret, "no.es.jwt", ""},
		{"secreto vacío", "", valid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pkgjwt.Parse(tt.secret, tt.token, tt.issuer)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", pkgjwt.RoleAdmin, "", time.Hour)
	assert.Error(t, err)
}
