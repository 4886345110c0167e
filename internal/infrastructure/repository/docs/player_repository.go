package docs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// ErrTemporaryPlayer is returned when a match-only player is saved to the roster.
var ErrTemporaryPlayer = errors.New("temporary players are not stored in the roster")

type PlayerRepository struct {
	store  docstore.Store
	logger *logging.Logger
}

func NewPlayerRepository(store docstore.Store, logger *logging.Logger) *PlayerRepository {
	return &PlayerRepository{store: store, logger: logging.OrDefault(logger).Named("repository.players")}
}

func (r *PlayerRepository) WatchByTeam(ctx context.Context, teamID string, onChange func([]player.Player), onError func(error)) (docstore.Unsubscribe, error) {
	q := docstore.Query{Collection: collectionPlayers}.Where("teamId", teamID)
	unsubscribe, err := r.store.SubscribeCollection(ctx, q, func(snap docstore.Snapshot) {
		onChange(decodeSnapshot(r.logger, snap, playerFromRecord))
	}, onError)
	if err != nil {
		return nil, errors.Wrapf(err, "watch players of team %s", teamID)
	}
	return unsubscribe, nil
}

func (r *PlayerRepository) Save(ctx context.Context, p player.Player) error {
	if p.Temporary {
		return errors.Wrapf(ErrTemporaryPlayer, "save player %s", p.ID)
	}
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "save player")
	}
	data, err := document.Encode(playerToRecord(p))
	if err != nil {
		return errors.Wrapf(err, "encode player %s", p.ID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionPlayers, p.ID), data, docstore.WriteOptions{}); err != nil {
		return errors.Wrapf(err, "write player %s", p.ID)
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	if err := r.store.DeleteDocument(ctx, docstore.Join(collectionPlayers, playerID)); err != nil {
		return errors.Wrapf(err, "delete player %s", playerID)
	}
	return nil
}

func playerFromRecord(rec playerRecord) player.Player {
	return player.Player{
		ID:       rec.ID,
		TeamID:   rec.TeamID,
		Name:     rec.Name,
		Number:   rec.Number,
		Position: player.Position(rec.Position),
		Image:    rec.Image,
		Email:    rec.Email,
		Phone:    rec.Phone,
		Foot:     player.Foot(rec.Foot),
	}
}

func playerToRecord(p player.Player) playerRecord {
	return playerRecord{
		ID:       p.ID,
		TeamID:   p.TeamID,
		Name:     p.Name,
		Number:   p.Number,
		Position: string(p.Position),
		Image:    p.Image,
		Email:    p.Email,
		Phone:    p.Phone,
		Foot:     string(p.Foot),
	}
}
