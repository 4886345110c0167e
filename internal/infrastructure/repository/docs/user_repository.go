package docs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/document"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type UserRepository struct {
	store  docstore.Store
	logger *logging.Logger
}

func NewUserRepository(store docstore.Store, logger *logging.Logger) *UserRepository {
	return &UserRepository{store: store, logger: logging.OrDefault(logger).Named("repository.users")}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Account, bool, error) {
	doc, err := r.store.GetDocument(ctx, docstore.Join(collectionUsers, userID))
	if errors.Is(err, docstore.ErrNotFound) {
		return user.Account{}, false, nil
	}
	if err != nil {
		return user.Account{}, false, errors.Wrapf(err, "get user %s", userID)
	}

	var rec userRecord
	if err := decodeDocument(doc, &rec); err != nil {
		return user.Account{}, false, errors.Wrapf(err, "decode user %s", userID)
	}
	return user.Account{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		Role:         user.Role(rec.Role),
		TeamID:       rec.TeamID,
		ProfilePhoto: rec.ProfilePhoto,
	}, true, nil
}

// UpdateProfilePhoto merges the photo url into users/{userID}.
func (r *UserRepository) UpdateProfilePhoto(ctx context.Context, userID, url string) error {
	path := docstore.Join(collectionUsers, userID)
	if err := r.store.WriteDocument(ctx, path, map[string]any{"profilePhoto": url}, docstore.WriteOptions{Merge: true}); err != nil {
		return errors.Wrapf(err, "update profile photo of %s", userID)
	}
	return nil
}

// SaveAccount writes the whole users/{id} document. Accounts are provisioned
// outside the roster; this is used for seeding.
func (r *UserRepository) SaveAccount(ctx context.Context, acc user.Account) error {
	data, err := document.Encode(userRecord{
		ID:           acc.ID,
		Name:         acc.Name,
		Email:        acc.Email,
		Role:         string(acc.Role),
		TeamID:       acc.TeamID,
		ProfilePhoto: acc.ProfilePhoto,
	})
	if err != nil {
		return errors.Wrapf(err, "encode user %s", acc.ID)
	}
	if err := r.store.WriteDocument(ctx, docstore.Join(collectionUsers, acc.ID), data, docstore.WriteOptions{}); err != nil {
		return errors.Wrapf(err, "write user %s", acc.ID)
	}
	return nil
}
