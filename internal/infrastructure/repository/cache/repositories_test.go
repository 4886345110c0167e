package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	usermock "github.com/riskibarqy/club-roster/internal/mocks/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CachesLookups(t *testing.T) {
	ctx := context.Background()
	next := usermock.NewRepository(t)
	repo := NewUserRepository(next, time.Minute)

	next.On("GetByID", ctx, "u1").Return(user.Account{ID: "u1", Role: user.RoleCoach, TeamID: "t1"}, true, nil).Once()
	next.On("GetByID", ctx, "ghost").Return(user.Account{}, false, nil).Once()

	for range 3 {
		acc, ok, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "t1", acc.TeamID)
	}

	for range 2 {
		_, ok, err := repo.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestUserRepository_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := usermock.NewRepository(t)
	repo := NewUserRepository(next, time.Minute)

	next.On("GetByID", ctx, "u1").Return(user.Account{}, false, errors.New("unavailable")).Once()
	next.On("GetByID", ctx, "u1").Return(user.Account{ID: "u1"}, true, nil).Once()

	_, _, err := repo.GetByID(ctx, "u1")
	require.Error(t, err)

	_, ok, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_PhotoUpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	next := usermock.NewRepository(t)
	repo := NewUserRepository(next, time.Minute)

	next.On("GetByID", ctx, "u1").Return(user.Account{ID: "u1"}, true, nil).Once()
	next.On("UpdateProfilePhoto", ctx, "u1", "https://cdn.test/u1.png").Return(nil).Once()
	next.On("GetByID", ctx, "u1").Return(user.Account{ID: "u1", ProfilePhoto: "https://cdn.test/u1.png"}, true, nil).Once()

	_, _, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateProfilePhoto(ctx, "u1", "https://cdn.test/u1.png"))

	acc, _, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/u1.png", acc.ProfilePhoto)
}
