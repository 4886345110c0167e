package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/club-roster/internal/domain/user"
	basecache "github.com/riskibarqy/club-roster/internal/platform/cache"
)

// UserRepository caches account lookups in front of next. Profile photo
// updates invalidate the cached account.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store[cachedAccount]
}

type cachedAccount struct {
	value  user.Account
	exists bool
}

func NewUserRepository(next user.Repository, ttl time.Duration) *UserRepository {
	return &UserRepository{next: next, cache: basecache.NewStore[cachedAccount](ttl)}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Account, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, accountKey(userID), func(ctx context.Context) (cachedAccount, error) {
		item, exists, err := r.next.GetByID(ctx, userID)
		if err != nil {
			return cachedAccount{}, err
		}
		return cachedAccount{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.Account{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *UserRepository) UpdateProfilePhoto(ctx context.Context, userID, url string) error {
	defer r.cache.Delete(accountKey(userID))
	return r.next.UpdateProfilePhoto(ctx, userID, url)
}

func accountKey(userID string) string {
	return "user:id:" + userID
}
