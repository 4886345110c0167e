package docs

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/fine"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type FineRepository struct {
	store  docstore.Store
	logger *logging.Logger
}

func NewFineRepository(store docstore.Store, logger *logging.Logger) *FineRepository {
	return &FineRepository{store: store, logger: logging.OrDefault(logger).Named("repository.fines")}
}

// WatchByPlayer follows one player's fines ordered by date.
func (r *FineRepository) WatchByPlayer(ctx context.Context, playerID string, onChange func([]fine.Fine), onError func(error)) (docstore.Unsubscribe, error) {
	q := docstore.Query{Collection: collectionFines, OrderBy: "date"}.Where("playerId", playerID)
	unsubscribe, err := r.store.SubscribeCollection(ctx, q, func(snap docstore.Snapshot) {
		onChange(decodeSnapshot(r.logger, snap, fineFromRecord))
	}, onError)
	if err != nil {
		return nil, errors.Wrapf(err, "watch fines of player %s", playerID)
	}
	return unsubscribe, nil
}

func (r *FineRepository) GetByID(ctx context.Context, fineID string) (fine.Fine, bool, error) {
	doc, err := r.store.GetDocument(ctx, docstore.Join(collectionFines, fineID))
	if errors.Is(err, docstore.ErrNotFound) {
		return fine.Fine{}, false, nil
	}
	if err != nil {
		return fine.Fine{}, false, errors.Wrapf(err, "get fine %s", fineID)
	}

	var rec fineRecord
	if err := decodeDocument(doc, &rec); err != nil {
		return fine.Fine{}, false, errors.Wrapf(err, "decode fine %s", fineID)
	}
	return fineFromRecord(rec), true, nil
}

func (r *FineRepository) Save(ctx context.Context, f fine.Fine) error {
	if err := f.Validate(); err != nil {
		return errors.Wrap(err, "save fine")
	}
	data, err := document.Encode(fineRecord{
		ID:        f.ID,
		PlayerID:  f.PlayerID,
		TeamID:    f.TeamID,
		Reason:    f.Reason,
		Amount:    f.Amount,
		Date:      sortableTime(f.Date),
		Paid:      f.Paid,
		CreatedBy: f.CreatedBy,
	})
	if err != nil {
		return errors.Wrapf(err, "encode fine %s", f.ID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionFines, f.ID), data, docstore.WriteOptions{}); err != nil {
		return errors.Wrapf(err, "write fine %s", f.ID)
	}
	return nil
}

func (r *FineRepository) Delete(ctx context.Context, fineID string) error {
	if err := r.store.DeleteDocument(ctx, docstore.Join(collectionFines, fineID)); err != nil {
		return errors.Wrapf(err, "delete fine %s", fineID)
	}
	return nil
}

func fineFromRecord(rec fineRecord) fine.Fine {
	return fine.Fine{
		ID:        rec.ID,
		PlayerID:  rec.PlayerID,
		TeamID:    rec.TeamID,
		Reason:    rec.Reason,
		Amount:    rec.Amount,
		Date:      time.Time(rec.Date),
		Paid:      rec.Paid,
		CreatedBy: rec.CreatedBy,
	}
}
