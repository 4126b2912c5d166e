package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaAsmara/orbis/models"
)

type staticModes struct {
	modes []models.TransportMode
	err   error
}

func (s *staticModes) Modes(context.Context) ([]models.TransportMode, error) {
	return s.modes, s.err
}

func TestModeCatalogBuiltinWithoutBackend(t *testing.T) {
	c := NewModeCatalog(nil)

	assert.Equal(t, models.BuiltinModes(), c.All(context.Background()))

	mode, err := c.ModeByType(context.Background(), models.TransportBus)
	require.NoError(t, err)
	assert.Equal(t, 6.0, mode.SpeedFactor)
	assert.Equal(t, 0.5, mode.CostFactor)
	assert.True(t, mode.EcoFriendly)
}

func TestModeCatalogPrefersBackend(t *testing.T) {
	c := NewModeCatalog(&staticModes{modes: []models.TransportMode{
		{Type: models.TransportCar, SpeedFactor: 12, CostFactor: 3},
	}})

	mode, err := c.ModeByType(context.Background(), models.TransportCar)
	require.NoError(t, err)
	assert.Equal(t, 12.0, mode.SpeedFactor)

	// The backend table replaces the builtin one entirely.
	_, err = c.ModeByType(context.Background(), models.TransportWalking)
	require.Error(t, err)
}

func TestModeCatalogFallsBackOnBackendError(t *testing.T) {
	c := NewModeCatalog(&staticModes{err: errors.New("connection refused")})
	assert.Equal(t, models.BuiltinModes(), c.All(context.Background()))
}

func TestModeCatalogFallsBackOnEmptyBackend(t *testing.T) {
	c := NewModeCatalog(&staticModes{})
	assert.Equal(t, models.BuiltinModes(), c.All(context.Background()))
}

func TestModeCatalogUnknownType(t *testing.T) {
	c := NewModeCatalog(nil)
	_, err := c.ModeByType(context.Background(), models.TransportType("airship"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airship")
}
