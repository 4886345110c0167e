package docs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/team"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type TeamRepository struct {
	store  docstore.Store
	logger *logging.Logger
}

func NewTeamRepository(store docstore.Store, logger *logging.Logger) *TeamRepository {
	return &TeamRepository{store: store, logger: logging.OrDefault(logger).Named("repository.teams")}
}

// WatchProfile follows teams/{teamID}. A malformed profile is logged and
// reported as missing.
func (r *TeamRepository) WatchProfile(ctx context.Context, teamID string, onChange func(team.Profile, bool), onError func(error)) (docstore.Unsubscribe, error) {
	unsubscribe, err := r.store.SubscribeDocument(ctx, docstore.Join(collectionTeams, teamID), func(snap docstore.Snapshot) {
		profiles := decodeSnapshot(r.logger, snap, teamFromRecord)
		if len(profiles) == 0 {
			onChange(team.Profile{}, false)
			return
		}
		onChange(profiles[0], true)
	}, onError)
	if err != nil {
		return nil, errors.Wrapf(err, "watch team %s", teamID)
	}
	return unsubscribe, nil
}

func (r *TeamRepository) SaveProfile(ctx context.Context, p team.Profile) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "save team profile")
	}
	data, err := document.Encode(teamRecord{
		ID:          p.ID,
		Name:        p.Name,
		ShortName:   p.ShortName,
		Crest:       p.Crest,
		City:        p.City,
		FoundedYear: p.FoundedYear,
	})
	if err != nil {
		return errors.Wrapf(err, "encode team %s", p.ID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionTeams, p.ID), data, docstore.WriteOptions{Merge: true}); err != nil {
		return errors.Wrapf(err, "write team %s", p.ID)
	}
	return nil
}

func teamFromRecord(rec teamRecord) team.Profile {
	return team.Profile{
		ID:          rec.ID,
		Name:        rec.Name,
		ShortName:   rec.ShortName,
		Crest:       rec.Crest,
		City:        rec.City,
		FoundedYear: rec.FoundedYear,
	}
}
