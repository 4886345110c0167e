package app

import (
	"context"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/config"
	"github.com/riskibarqy/club-roster/internal/infrastructure/docstore/firestore"
	memstore "github.com/riskibarqy/club-roster/internal/infrastructure/docstore/memory"
	"github.com/riskibarqy/club-roster/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/club-roster/internal/infrastructure/repository/docs"
	"github.com/riskibarqy/club-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-roster/internal/infrastructure/upload/gcs"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/riskibarqy/club-roster/internal/platform/resilience"
	"github.com/riskibarqy/club-roster/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired roster services of one process.
type App struct {
	Store     docstore.Store
	Persister *usecase.Persister
	Identity  *usecase.IdentityService
	Roster    *usecase.RosterHub
	Fines     *usecase.FinesView
	FineSvc   *usecase.FineService
	Players   *usecase.PlayerService
	Staff     *usecase.StaffService
	Profile   *usecase.ProfileService
	Matches   *usecase.MatchService

	logger  *logging.Logger
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)
	a := &App{logger: logger}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store

	playerRepo := docs.NewPlayerRepository(store, logger)
	staffRepo := docs.NewStaffRepository(store, logger)
	fineRepo := docs.NewFineRepository(store, logger)
	teamRepo := docs.NewTeamRepository(store, logger)
	lineupRepo := docs.NewLineupRepository(store, logger)
	accountRepo := docs.NewUserRepository(store, logger)
	userRepo := cache.NewUserRepository(accountRepo, cfg.IdentityCacheTTL)

	if cfg.StoreBackend == config.StoreMemory {
		if err := memory.Seed(ctx, teamRepo, accountRepo, playerRepo, staffRepo); err != nil {
			_ = a.Close()
			return nil, errors.Wrap(err, "seed memory store")
		}
		logger.Info("memory store seeded", "team_id", memory.DemoTeamID)
	}

	uploader, err := a.openUploader(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	persister, err := usecase.NewPersister(usecase.PersisterConfig{
		Workers: cfg.WriteWorkers,
		Timeout: cfg.WriteTimeout,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.WriteCircuitEnabled,
			FailureThreshold: cfg.WriteCircuitFailureCount,
			OpenTimeout:      cfg.WriteCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WriteCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "create persister")
	}
	a.Persister = persister
	a.closers = append(a.closers, func() error { return persister.Close(shutdownTimeout) })

	a.Identity = usecase.NewIdentityService(userRepo)
	a.Roster = usecase.NewRosterHub(playerRepo, staffRepo, teamRepo, logger)
	a.Fines = usecase.NewFinesView(fineRepo, logger)
	a.FineSvc = usecase.NewFineService(fineRepo, nil, logger)
	a.Players = usecase.NewPlayerService(playerRepo, uploader, nil)
	a.Staff = usecase.NewStaffService(staffRepo, uploader, nil)
	a.Profile = usecase.NewProfileService(userRepo, uploader)
	a.Matches = usecase.NewMatchService(lineupRepo, persister, nil, logger)

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		store, err := firestore.Open(ctx, cfg.FirestoreProjectID, a.logger)
		if err != nil {
			return nil, errors.Wrap(err, "open firestore")
		}
		a.closers = append(a.closers, store.Close)
		a.logger.Info("document store ready", "backend", cfg.StoreBackend, "project_id", cfg.FirestoreProjectID)
		return store, nil
	default:
		store := memstore.NewStore(a.logger)
		a.closers = append(a.closers, func() error { store.Close(); return nil })
		a.logger.Info("document store ready", "backend", config.StoreMemory)
		return store, nil
	}
}

// openUploader returns nil when uploads are disabled; local images are then
// rejected with ErrDependencyUnavailable.
func (a *App) openUploader(ctx context.Context, cfg config.Config) (usecase.ImageUploader, error) {
	if !cfg.UploadEnabled {
		a.logger.Info("image upload disabled", "reason", "UPLOAD_ENABLED=false")
		return nil, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "create storage client")
	}
	a.closers = append(a.closers, client.Close)
	return gcs.New(client, cfg.UploadBucket, cfg.UploadTimeout, a.logger), nil
}

// Close stops the live queries, drains pending writes and releases clients in
// reverse order of creation.
func (a *App) Close() error {
	if a.Roster != nil {
		a.Roster.Close()
	}
	if a.Fines != nil {
		a.Fines.Close()
	}

	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	a.closers = nil
	return errs
}
