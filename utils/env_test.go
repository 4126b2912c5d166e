package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	t.Setenv("ORBIS_TEST_KEY", "")
	assert.Equal(t, "fallback", Getenv("ORBIS_TEST_KEY", "fallback"))

	t.Setenv("ORBIS_TEST_KEY", "set")
	assert.Equal(t, "set", Getenv("ORBIS_TEST_KEY", "fallback"))
}

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_USER", "world")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DBNAME", "aldermoor")
	t.Setenv("PG_SSLMODE", "require")

	assert.Equal(t,
		"host=db.internal port=6543 user=world password=secret dbname=aldermoor sslmode=require",
		BuildPostgresDSNFromEnv())
}

func TestOpenRedisFromEnvDisabled(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	assert.Nil(t, OpenRedisFromEnv())
}
