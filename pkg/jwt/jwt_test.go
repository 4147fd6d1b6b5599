package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "ent-1", "operator", "logistica-vacunas", 5)
	require.NoError(t, err)

	userID, entityID, role, err := Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "ent-1", entityID)
	assert.Equal(t, "operator", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "ent-1", "admin", "x", 5)
	require.NoError(t, err)
	_, _, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "ent-1", "admin", "x", -1)
	require.NoError(t, err)
	_, _, _, err = Parse("s3cret", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := Generate("", "u-1", "ent-1", "admin", "x", 5)
	assert.Error(t, err)
}
