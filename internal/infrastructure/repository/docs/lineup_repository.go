package docs

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/lineup"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type LineupRepository struct {
	store  docstore.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewLineupRepository(store docstore.Store, logger *logging.Logger) *LineupRepository {
	return &LineupRepository{
		store:  store,
		logger: logging.OrDefault(logger).Named("repository.alignments"),
		now:    time.Now,
	}
}

func (r *LineupRepository) WatchByMatch(ctx context.Context, matchID string, onChange func(lineup.Alignment, bool), onError func(error)) (docstore.Unsubscribe, error) {
	unsubscribe, err := r.store.SubscribeDocument(ctx, docstore.Join(collectionAlignments, matchID), func(snap docstore.Snapshot) {
		if len(snap.Documents) == 0 {
			onChange(lineup.Alignment{MatchID: matchID}, false)
			return
		}
		var rec alignmentRecord
		if err := document.Decode(snap.Documents[0].Data, &rec); err != nil {
			r.logger.Warn("skipping malformed alignment", "match_id", matchID, "error", err)
			return
		}
		a := alignmentFromRecord(rec)
		a.MatchID = matchID
		onChange(a, true)
	}, onError)
	if err != nil {
		return nil, errors.Wrapf(err, "watch alignment of match %s", matchID)
	}
	return unsubscribe, nil
}

// Save writes the whole alignment. Concurrent editors are last write wins.
func (r *LineupRepository) Save(ctx context.Context, a lineup.Alignment) error {
	if a.MatchID == "" {
		return errors.New("save alignment: match id is required")
	}
	a.UpdatedAt = r.now().UTC()
	data, err := document.Encode(alignmentToRecord(a))
	if err != nil {
		return errors.Wrapf(err, "encode alignment %s", a.MatchID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionAlignments, a.MatchID), data, docstore.WriteOptions{}); err != nil {
		return errors.Wrapf(err, "write alignment %s", a.MatchID)
	}
	return nil
}

func alignmentFromRecord(rec alignmentRecord) lineup.Alignment {
	a := lineup.Alignment{
		MatchID:      rec.MatchID,
		FormationID:  rec.FormationID,
		Lineup:       make(map[string]string, len(rec.Lineup)),
		Substitutes:  append([]string(nil), rec.Substitutes...),
		SpecialRoles: make(map[lineup.Role]string, len(lineup.AllRoles)),
		UpdatedAt:    rec.UpdatedAt,
	}
	for slotID, pid := range rec.Lineup {
		if pid != nil {
			a.Lineup[slotID] = *pid
		}
	}
	for _, role := range lineup.AllRoles {
		if pid := rec.SpecialRoles[string(role)]; pid != nil {
			a.SpecialRoles[role] = *pid
		}
	}
	for _, tp := range rec.TemporaryPlayers {
		a.TemporaryPlayers = append(a.TemporaryPlayers, player.Player{
			ID:        tp.ID,
			Name:      tp.Name,
			Number:    tp.Number,
			Position:  player.Position(tp.Position),
			Temporary: true,
		})
	}
	return a
}

func alignmentToRecord(a lineup.Alignment) alignmentRecord {
	rec := alignmentRecord{
		MatchID:          a.MatchID,
		FormationID:      a.FormationID,
		Lineup:           make(map[string]*string, len(a.Lineup)),
		Substitutes:      append([]string{}, a.Substitutes...),
		SpecialRoles:     make(map[string]*string, len(lineup.AllRoles)),
		TemporaryPlayers: make([]temporaryPlayerRecord, 0, len(a.TemporaryPlayers)),
		UpdatedAt:        a.UpdatedAt,
	}
	for slotID, pid := range a.Lineup {
		rec.Lineup[slotID] = nullable(pid)
	}
	for _, role := range lineup.AllRoles {
		rec.SpecialRoles[string(role)] = nullable(a.SpecialRoles[role])
	}
	for _, p := range a.TemporaryPlayers {
		rec.TemporaryPlayers = append(rec.TemporaryPlayers, temporaryPlayerRecord{
			ID:       p.ID,
			Name:     p.Name,
			Number:   p.Number,
			Position: string(p.Position),
		})
	}
	return rec
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
