package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	usermock "github.com/riskibarqy/club-roster/internal/mocks/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_Resolve_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := usermock.NewRepository(t)
	service := NewIdentityService(users)

	users.On("GetByID", mock.Anything, "u-coach").
		Return(user.Account{ID: "u-coach", Name: "Ana", Role: user.RoleCoach, TeamID: "t1"}, true, nil).
		Once()

	got, err := service.Resolve(ctx, "u-coach")
	require.NoError(t, err)
	assert.Equal(t, coach, got)
}

func TestIdentityService_Resolve_FailuresUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := usermock.NewRepository(t)
	service := NewIdentityService(users)

	_, err := service.Resolve(ctx, "")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	users.On("GetByID", mock.Anything, "ghost").Return(user.Account{}, false, nil).Once()
	_, err = service.Resolve(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	users.On("GetByID", mock.Anything, "fan").Return(user.Account{ID: "fan", Role: "supporter", TeamID: "t1"}, true, nil).Once()
	_, err = service.Resolve(ctx, "fan")
	assert.True(t, errors.Is(err, ErrForbidden))

	users.On("GetByID", mock.Anything, "u-down").Return(user.Account{}, false, errors.New("unavailable")).Once()
	_, err = service.Resolve(ctx, "u-down")
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))
}

func TestProfileService_UpdateProfilePhoto_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := usermock.NewRepository(t)
	uploader := &fakeUploader{url: "https://storage.googleapis.com/b/users/x.png"}
	service := NewProfileService(users, uploader)

	users.On("UpdateProfilePhoto", mock.Anything, "u-coach", "https://storage.googleapis.com/b/users/x.png").Return(nil).Once()

	url, err := service.UpdateProfilePhoto(ctx, coach, "/tmp/me.png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/b/users/x.png", url)
	assert.Equal(t, []string{"users:/tmp/me.png"}, uploader.calls)

	_, err = service.UpdateProfilePhoto(ctx, coach, " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
