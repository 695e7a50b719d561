package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-registry/internal/config"
	"github.com/riskibarqy/league-registry/internal/domain/league"
	cacherepo "github.com/riskibarqy/league-registry/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-registry/internal/infrastructure/repository/document"
	"github.com/riskibarqy/league-registry/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-registry/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-registry/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-registry/internal/platform/cache"
	"github.com/riskibarqy/league-registry/internal/platform/database"
	"github.com/riskibarqy/league-registry/internal/platform/docstore"
	idgen "github.com/riskibarqy/league-registry/internal/platform/id"
	"github.com/riskibarqy/league-registry/internal/platform/logging"
	"github.com/riskibarqy/league-registry/internal/platform/resilience"
	"github.com/riskibarqy/league-registry/internal/usecase"
)

// NewHTTPServer wires the configured storage driver into the HTTP router.
// The returned cleanup releases storage resources and must run after the
// server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	leagueRepo, cleanup, err := newLeagueRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, cache.NewStore[[]league.League](cfg.CacheTTL))
	}

	leagueSvc := usecase.NewLeagueService(leagueRepo, logger)
	handler := httpapi.NewHandler(leagueSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestIDGenerator: idgen.NewUUIDGenerator(),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("league repository ready",
		"storage_driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
	)

	return server, cleanup, nil
}

func newLeagueRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (league.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case config.StorageMemory:
		return memory.NewLeagueRepository(nil), noop, nil
	case config.StoragePostgres:
		db, err := database.Open(ctx, database.Options{
			URL:                   cfg.DBURL,
			DisablePreparedBinary: cfg.DBDisablePreparedBinary,
			MaxOpenConns:          cfg.DBMaxOpenConns,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewLeagueRepository(db), db.Close, nil
	case config.StorageS3:
		s3Cfg := docstore.S3Config{
			Bucket:   cfg.DocstoreS3Bucket,
			Region:   cfg.DocstoreS3Region,
			Endpoint: cfg.DocstoreS3Endpoint,
			Prefix:   cfg.DocstoreS3Prefix,
		}
		client, err := docstore.NewS3Client(ctx, s3Cfg)
		if err != nil {
			return nil, nil, err
		}
		breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.DocstoreCircuitEnabled,
			FailureThreshold: cfg.DocstoreCircuitFailureCount,
			OpenTimeout:      cfg.DocstoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DocstoreCircuitHalfOpenMax,
		})
		store, err := docstore.NewS3Store(client, s3Cfg, breaker)
		if err != nil {
			return nil, nil, err
		}
		return document.NewLeagueRepository(store,
			document.WithKey(cfg.DocstoreKey),
			document.WithMaxRetries(cfg.DocstoreMaxRetries),
			document.WithLogger(logger),
		), noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
