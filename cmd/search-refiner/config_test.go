package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/search-refiner/internal/refine"
	"github.com/pdiddy/search-refiner/internal/search"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := loadConfig(v)
	assert.Equal(t, search.DefaultEndpoint, cfg.Search.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 5, cfg.Search.MaxRetries)
	assert.Zero(t, cfg.Search.RequestsPerMinute)
	assert.False(t, cfg.Search.Proxy.Enabled())
	assert.Equal(t, refine.DefaultMaxIterations, cfg.Refine.MaxIterations)
	assert.Equal(t, refine.DefaultStrategy, cfg.Refine.Strategy)
	assert.Empty(t, cfg.Search.AppID, "client ID only comes from the command line")
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SEARCH_REFINER_PROXY_HOST", "proxy.internal")
	t.Setenv("SEARCH_REFINER_PROXY_PORT", "3128")
	t.Setenv("SEARCH_REFINER_SEARCH_TIMEOUT", "5s")
	t.Setenv("SEARCH_REFINER_REFINE_STRATEGY", "drop")

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	cfg := loadConfig(v)
	assert.True(t, cfg.Search.Proxy.Enabled())
	assert.Equal(t, "proxy.internal:3128", cfg.Search.Proxy.Addr())
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "drop", cfg.Refine.Strategy)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("refine.max_iterations", 3)
	v.Set("search.endpoint", "http://localhost:9999/search")

	cfg := loadConfig(v)
	assert.Equal(t, 3, cfg.Refine.MaxIterations)
	assert.Equal(t, "http://localhost:9999/search", cfg.Search.Endpoint)
}
