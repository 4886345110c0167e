package docs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type StaffRepository struct {
	store  docstore.Store
	logger *logging.Logger
}

func NewStaffRepository(store docstore.Store, logger *logging.Logger) *StaffRepository {
	return &StaffRepository{store: store, logger: logging.OrDefault(logger).Named("repository.staff")}
}

func (r *StaffRepository) WatchByTeam(ctx context.Context, teamID string, onChange func([]staff.Member), onError func(error)) (docstore.Unsubscribe, error) {
	q := docstore.Query{Collection: collectionStaff}.Where("teamId", teamID)
	unsubscribe, err := r.store.SubscribeCollection(ctx, q, func(snap docstore.Snapshot) {
		onChange(decodeSnapshot(r.logger, snap, staffFromRecord))
	}, onError)
	if err != nil {
		return nil, errors.Wrapf(err, "watch staff of team %s", teamID)
	}
	return unsubscribe, nil
}

func (r *StaffRepository) Save(ctx context.Context, m staff.Member) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "save staff member")
	}
	data, err := document.Encode(staffRecord{
		ID:     m.ID,
		TeamID: m.TeamID,
		Name:   m.Name,
		Role:   m.Role,
		Image:  m.Image,
		Email:  m.Email,
		Phone:  m.Phone,
	})
	if err != nil {
		return errors.Wrapf(err, "encode staff member %s", m.ID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionStaff, m.ID), data, docstore.WriteOptions{}); err != nil {
		return errors.Wrapf(err, "write staff member %s", m.ID)
	}
	return nil
}

func (r *StaffRepository) Delete(ctx context.Context, memberID string) error {
	if err := r.store.DeleteDocument(ctx, docstore.Join(collectionStaff, memberID)); err != nil {
		return errors.Wrapf(err, "delete staff member %s", memberID)
	}
	return nil
}

func staffFromRecord(rec staffRecord) staff.Member {
	return staff.Member{
		ID:     rec.ID,
		TeamID: rec.TeamID,
		Name:   rec.Name,
		Role:   rec.Role,
		Image:  rec.Image,
		Email:  rec.Email,
		Phone:  rec.Phone,
	}
}
