package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/config"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/risk"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/store"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/zone"
)

// openStore builds the configured store backend and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// formulaSet resolves the formula revision and applies any configured
// parameter overrides.
func formulaSet(revision string) (*risk.FormulaSet, error) {
	if revision == "" {
		revision = cfg.Risk.Revision
	}
	fs, err := risk.ForRevision(revision)
	if err != nil {
		return nil, err
	}
	if cfg.Risk.OverridesFile != "" {
		o, err := risk.LoadOverrides(cfg.Risk.OverridesFile)
		if err != nil {
			return nil, err
		}
		fs.ApplyOverrides(o)
	}
	return fs, nil
}

// loadZones builds a cached zone source from a shapefile. The returned flush
// writes the lookup cache back to disk when it was newly populated.
func loadZones(zc config.ZoneConfig) (zone.Source, func(), error) {
	resolver, err := zone.LoadShapefile(zc.Shapefile, zc.Attribute)
	if err != nil {
		return nil, nil, err
	}
	cache, err := zone.OpenCache(zc.Cache)
	if err != nil {
		return nil, nil, err
	}
	flush := func() {
		if err := cache.Flush(); err != nil {
			zap.L().Warn("zone cache flush failed", zap.String("path", zc.Cache), zap.Error(err))
		}
	}
	return zone.NewCached(cache, resolver), flush, nil
}
