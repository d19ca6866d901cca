package connection_test

import (
	"testing"

	"markpedia-os/internal/config"
	"markpedia-os/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := connection.DSN(config.DBConfig{
		Host: "db", User: "leave", Password: "secret", Name: "markpedia", Port: "5432", SSLMode: "disable",
	})
	assert.Equal(t, "host=db user=leave password=secret dbname=markpedia port=5432 sslmode=disable", dsn)
}

func TestConnectRedisWithRetry_NoAddress(t *testing.T) {
	rdb, err := connection.ConnectRedisWithRetry("", 3)
	require.NoError(t, err)
	assert.Nil(t, rdb)
}
