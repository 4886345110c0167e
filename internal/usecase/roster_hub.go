package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/domain/team"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/livequery"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// RosterHub bundles the team-scoped caches one signed-in member reads from.
type RosterHub struct {
	Players *livequery.Cache[[]player.Player]
	Staff   *livequery.Cache[[]staff.Member]
	Team    *livequery.Cache[TeamProfileSnapshot]

	players player.Repository
	staff   staff.Repository
	teams   team.Repository
	logger  *logging.Logger
}

func NewRosterHub(players player.Repository, staffRepo staff.Repository, teams team.Repository, logger *logging.Logger) *RosterHub {
	logger = logging.OrDefault(logger)
	return &RosterHub{
		Players: livequery.NewCache[[]player.Player]("players", logger),
		Staff:   livequery.NewCache[[]staff.Member]("staff", logger),
		Team:    livequery.NewCache[TeamProfileSnapshot]("team", logger),
		players: players,
		staff:   staffRepo,
		teams:   teams,
		logger:  logger.Named("roster_hub"),
	}
}

// Open points every cache at principal's team. The subscriptions run until
// Close. Caches that subscribe keep running when a sibling fails; the
// failures are returned together.
func (h *RosterHub) Open(ctx context.Context, principal user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterHub.Open")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "open roster hub"), ErrUnauthorized)
	}
	teamID := principal.TeamID

	p := pool.New().WithErrors()
	p.Go(func() error { return h.Players.Activate(ctx, PlayersSource(h.players, teamID)) })
	p.Go(func() error { return h.Staff.Activate(ctx, StaffSource(h.staff, teamID)) })
	p.Go(func() error { return h.Team.Activate(ctx, TeamProfileSource(h.teams, teamID)) })
	if err := p.Wait(); err != nil {
		h.logger.WarnContext(ctx, "roster hub opened with failures", "team_id", teamID, "error", err)
		return errors.Mark(errors.Wrap(err, "open roster hub"), ErrDependencyUnavailable)
	}

	h.logger.InfoContext(ctx, "roster hub opened", "team_id", teamID, "user_id", principal.UserID)
	return nil
}

// Roster returns the latest players snapshot.
func (h *RosterHub) Roster() []player.Player {
	return h.Players.State().Data
}

func (h *RosterHub) Close() {
	h.Players.Deactivate()
	h.Staff.Deactivate()
	h.Team.Deactivate()
}
