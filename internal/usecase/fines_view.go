package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/fine"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/livequery"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// FinesState is what the fines screen reads. Stats is derived from Fines on
// every read and never stored.
type FinesState struct {
	PlayerID string
	Fines    []fine.Fine
	Stats    fine.Stats
	Loading  bool
	Ready    bool
	Err      error
}

// FinesView follows the fines of whichever player is selected.
type FinesView struct {
	repo  fine.Repository
	cache *livequery.Cache[[]fine.Fine]
}

func NewFinesView(repo fine.Repository, logger *logging.Logger) *FinesView {
	return &FinesView{
		repo:  repo,
		cache: livequery.NewCache[[]fine.Fine]("fines", logger),
	}
}

// Select switches the view to playerID. The previous player's query is torn
// down before the new one opens.
func (v *FinesView) Select(ctx context.Context, principal user.Principal, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinesView.Select")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "select fines"), ErrUnauthorized)
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return errors.Wrap(ErrInvalidInput, "select fines: player id is required")
	}
	return v.cache.Activate(ctx, FinesSource(v.repo, playerID))
}

func (v *FinesView) State() FinesState {
	return finesState(v.cache.State())
}

// Watch calls fn with the derived state on every change.
func (v *FinesView) Watch(fn func(FinesState)) func() {
	return v.cache.Watch(func(st livequery.State[[]fine.Fine]) { fn(finesState(st)) })
}

func (v *FinesView) Close() {
	v.cache.Deactivate()
}

func finesState(st livequery.State[[]fine.Fine]) FinesState {
	return FinesState{
		PlayerID: strings.TrimPrefix(st.Key, "fines:player:"),
		Fines:    st.Data,
		Stats:    fine.ComputeStats(st.Data),
		Loading:  st.Loading,
		Ready:    st.Ready,
		Err:      st.Err,
	}
}
