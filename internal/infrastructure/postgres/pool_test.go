package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-vacunas-api/pkg/config"
)

func TestPoolConfig_TamañoDesdeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "vac", SSLMode: "disable",
		MaxConns: 10, MinConns: 3,
	}
	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "vac", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@remoto:6543/otra?sslmode=disable",
		Host:        "localhost", Port: 5432, DBName: "vac",
	}
	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "remoto", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, "otra", pc.ConnConfig.Database)
}

func TestPoolConfig_MinMayorQueMaxSeIgnora(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{Host: "db", Port: 5432, DBName: "vac", SSLMode: "disable", MaxConns: 2, MinConns: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), pc.MaxConns)
	assert.Equal(t, int32(0), pc.MinConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
