package cmd

import (
	"context"

	"go.uber.org/zap"

	"cloudbasket/adapters/storage"
	"cloudbasket/core/basket"
	"cloudbasket/core/catalog"
	"cloudbasket/core/session"
	"cloudbasket/core/types"
	"cloudbasket/internal/config"
	"cloudbasket/internal/logging"
)

// loadCatalog reads the configured catalog files, falling back to the
// built-in catalog when none exist
func loadCatalog(ctx context.Context, cfg *config.Config) (*types.Catalog, error) {
	result, err := catalog.NewLoader().LoadOrBuiltin(ctx, catalog.Paths{
		Compute:  cfg.Catalog.ComputePath,
		Volume:   cfg.Catalog.VolumePath,
		Database: cfg.Catalog.DatabasePath,
	})
	if err != nil {
		return nil, err
	}
	for _, r := range result.Rejected {
		logging.Debug("catalog record rejected",
			zap.String("kind", r.Kind.String()),
			zap.String("source", r.Source),
			zap.Int("index", r.Index),
			zap.String("reason", r.Reason),
		)
	}
	return result.Catalog, nil
}

func basketOptions(cfg *config.Config, cat *types.Catalog) basket.Options {
	opts := basket.Options{
		StorageSentinel:   cfg.Basket.StorageSentinel,
		DefaultVolumeType: cfg.Basket.DefaultVolumeType,
		DefaultSizeGB:     cfg.Basket.DefaultVolumeSizeGB,
	}
	if cat != nil {
		opts.VolumeOptions = cat.Volumes
	}
	return opts
}

// openSessions opens the configured session backend. The caller closes the
// returned store.
func openSessions(cfg *config.Config) (*session.Store, storage.Store, error) {
	backend, err := storage.StoreFactory(storage.Backend(cfg.Sessions.Backend), map[string]string{
		"path": cfg.Sessions.Path,
	})
	if err != nil {
		return nil, nil, err
	}
	return session.NewStore(backend), backend, nil
}
