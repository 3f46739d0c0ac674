package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DiscoveryConfig(t *testing.T) {
	os.Setenv("DISCOVERY_DEFAULT_RADIUS_MILES", "25")
	os.Setenv("DISCOVERY_NEARBY_MAX_RESULTS", "5")
	defer func() {
		os.Unsetenv("DISCOVERY_DEFAULT_RADIUS_MILES")
		os.Unsetenv("DISCOVERY_NEARBY_MAX_RESULTS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Discovery.DefaultRadiusMiles)
	assert.Equal(t, 5, cfg.Discovery.NearbyMaxResults)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DISCOVERY_DEFAULT_RADIUS_MILES")
	os.Unsetenv("DISCOVERY_NEARBY_MAX_RESULTS")
	os.Unsetenv("DISCOVERY_DEFAULT_PAGE_SIZE")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Discovery.DefaultRadiusMiles)
	assert.Equal(t, 20, cfg.Discovery.NearbyMaxResults)
	assert.Equal(t, 10, cfg.Discovery.DefaultPageSize)
	assert.Equal(t, "careseeker", cfg.Database.Database)
}

func TestLoad_InvalidNumericFallsBack(t *testing.T) {
	os.Setenv("DISCOVERY_NEARBY_MAX_RESULTS", "not-a-number")
	defer os.Unsetenv("DISCOVERY_NEARBY_MAX_RESULTS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 20, cfg.Discovery.NearbyMaxResults)
}
