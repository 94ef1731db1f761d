package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "petmarketplace", cfg.Mongo.Database)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Search.DefaultRadiusKm)
	assert.Equal(t, 12, cfg.Search.DefaultLimit)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("MONGO_DATABASE", "staging")
	t.Setenv("PORT", "9090")
	t.Setenv("SEARCH_DEFAULT_RADIUS_KM", "25")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "staging", cfg.Mongo.Database)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25.0, cfg.Search.DefaultRadiusKm)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
}

func TestLoad_IgnoresUnparseableNumbers(t *testing.T) {
	t.Setenv("SEARCH_DEFAULT_LIMIT", "a dozen")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Search.DefaultLimit)
}
