package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-spend/internal/classify"
	"github.com/sells-group/vendor-spend/internal/config"
	"github.com/sells-group/vendor-spend/internal/registry"
	"github.com/sells-group/vendor-spend/internal/resilience"
	"github.com/sells-group/vendor-spend/internal/store"
)

// classifierEnv is the registry, fallback rules and composed classifier
// built from config.
type classifierEnv struct {
	Registry   *registry.Registry
	Fallback   *classify.Fallback
	Classifier *classify.Classifier
}

func initClassifier() (*classifierEnv, error) {
	reg, err := registry.Load(cfg.Registry.File, registry.Options{Strict: cfg.Registry.Strict})
	if err != nil {
		return nil, eris.Wrap(err, "init registry")
	}
	fb, err := classify.LoadFallback(cfg.Classify.RulesFile)
	if err != nil {
		return nil, eris.Wrap(err, "init fallback rules")
	}

	zap.L().Debug("classifier ready",
		zap.Int("registry_entries", reg.Len()),
		zap.Int("rules", len(fb.Rules())),
	)

	return &classifierEnv{
		Registry:   reg,
		Fallback:   fb,
		Classifier: classify.New(reg, fb),
	}, nil
}

// defaultSQLitePath is used when the sqlite driver has no database_url.
const defaultSQLitePath = "vendor-spend.db"

// initStore opens and migrates the configured run history store, retrying
// transient failures. It returns nil when history is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == config.DriverNone {
		return nil, nil
	}

	policy := resilience.DefaultPolicy()
	if cfg.Store.ConnectAttempts > 0 {
		policy.Attempts = cfg.Store.ConnectAttempts
	}

	var st store.Store
	err := resilience.Do(ctx, policy, "store.open", func(ctx context.Context) error {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return err
		}
		st = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		return store.NewSQLite(dsn)
	case config.DriverPostgres:
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// requireStore is initStore for commands that cannot run without history.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run history is disabled (store.driver is none)")
	}
	return st, nil
}
