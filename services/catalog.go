package services

import (
	"context"
	"fmt"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/models"
)

// ModeLister is the slice of a storage backend the catalog needs: the
// MODE_OF_TRANSPORT rows, however they are stored.
type ModeLister interface {
	Modes(ctx context.Context) ([]models.TransportMode, error)
}

// ModeCatalog resolves transport types to their speed and cost factors.
// With a backend it serves whatever the world's author configured; without
// one, or when the backend has nothing, it serves the builtin table.
type ModeCatalog struct {
	lister ModeLister
}

func NewModeCatalog(lister ModeLister) *ModeCatalog {
	return &ModeCatalog{lister: lister}
}

// All returns the current mode table. A backend error falls back to the
// builtin modes rather than leaving route requests unanswerable.
func (c *ModeCatalog) All(ctx context.Context) []models.TransportMode {
	if c.lister != nil {
		modes, err := c.lister.Modes(ctx)
		if err != nil {
			logger.L().Warn("mode_catalog_backend_error", "err", err)
		} else if len(modes) > 0 {
			return modes
		}
	}
	return models.BuiltinModes()
}

// ModeByType looks up one transport mode by its type.
func (c *ModeCatalog) ModeByType(ctx context.Context, t models.TransportType) (models.TransportMode, error) {
	for _, m := range c.All(ctx) {
		if m.Type == t {
			return m, nil
		}
	}
	return models.TransportMode{}, fmt.Errorf("no transport mode %q in the catalog", t)
}
