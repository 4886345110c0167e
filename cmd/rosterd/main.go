package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/club-roster/internal/app"
	"github.com/riskibarqy/club-roster/internal/config"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-roster/internal/livequery"
	"github.com/riskibarqy/club-roster/internal/observability"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/riskibarqy/club-roster/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel, cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing := observability.InitUptrace(cfg, logger)
	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("start profiler", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	userID := cfg.RosterUserID
	if userID == "" && cfg.StoreBackend == config.StoreMemory {
		userID = memory.DemoCoachID
	}
	principal, err := a.Identity.Resolve(ctx, userID)
	if err != nil {
		logger.Error("resolve principal", "user_id", userID, "error", err)
		_ = a.Close()
		os.Exit(1)
	}

	cancelWatches := watchRoster(a.Roster, logger)
	cancelWriteErrors := a.Persister.OnWriteError(func(key string, err error) {
		logger.Warn("background write failed", "key", key, "error", err)
	})

	if err := a.Roster.Open(ctx, principal); err != nil {
		logger.Warn("roster opened with failures", "error", err)
	}
	logger.Info("roster daemon running", "team_id", principal.TeamID, "user_id", principal.UserID, "role", string(principal.Role))

	<-ctx.Done()

	cancelWriteErrors()
	cancelWatches()
	if err := a.Close(); err != nil {
		logger.Error("close app", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Warn("stop profiler", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown tracing", "error", err)
	}

	logger.Info("roster daemon stopped")
}

func watchRoster(hub *usecase.RosterHub, logger *logging.Logger) func() {
	cancelPlayers := hub.Players.Watch(func(st livequery.State[[]player.Player]) {
		logState(logger, "players", st.Key, len(st.Data), st.Version, st.Err)
	})
	cancelStaff := hub.Staff.Watch(func(st livequery.State[[]staff.Member]) {
		logState(logger, "staff", st.Key, len(st.Data), st.Version, st.Err)
	})
	cancelTeam := hub.Team.Watch(func(st livequery.State[usecase.TeamProfileSnapshot]) {
		if st.Err != nil {
			logger.Warn("team profile unavailable", "key", st.Key, "error", st.Err)
			return
		}
		logger.Info("team profile", "key", st.Key, "exists", st.Data.Exists, "name", st.Data.Profile.Name)
	})
	return func() {
		cancelPlayers()
		cancelStaff()
		cancelTeam()
	}
}

func logState(logger *logging.Logger, name, key string, count int, version uint64, err error) {
	if err != nil {
		logger.Warn(name+" snapshot unavailable, serving last data", "key", key, "count", count, "error", err)
		return
	}
	logger.Info(name+" snapshot", "key", key, "count", count, "version", version)
}
