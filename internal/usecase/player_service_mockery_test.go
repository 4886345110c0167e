package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/staff"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	playermock "github.com/riskibarqy/club-roster/internal/mocks/domain/player"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	calls []string
}

func (u *fakeUploader) Upload(_ context.Context, localPath, folder string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, folder+":"+localPath)
	return u.url, u.err
}

func TestPlayerService_Save_UploadsLocalImageUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	uploader := &fakeUploader{url: "https://storage.googleapis.com/b/players/a.png"}
	service := NewPlayerService(repo, uploader, fixedIDs{id: "p-new"})

	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(p player.Player) bool {
			return p.ID == "p-new" && p.TeamID == "t1" && p.Image == "https://storage.googleapis.com/b/players/a.png"
		})).
		Return(nil).
		Once()

	got, err := service.Save(ctx, coach, SavePlayerInput{Name: "Xavi", Number: 6, Position: player.PositionMidfielder, Image: "./xavi.png"})
	require.NoError(t, err)
	assert.Equal(t, "p-new", got.ID)
	assert.Equal(t, []string{"players:./xavi.png"}, uploader.calls)
}

func TestPlayerService_Save_KeepsRemoteImageUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo, nil, nil)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(p player.Player) bool { return p.Image == "https://cdn.test/a.png" })).Return(nil).Once()

	_, err := service.Save(ctx, admin, SavePlayerInput{ID: "p1", Name: "Xavi", Number: 6, Position: player.PositionMidfielder, Image: "https://cdn.test/a.png"})
	require.NoError(t, err)
}

func TestPlayerService_Save_FailuresUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo, nil, nil)

	_, err := service.Save(ctx, coach, SavePlayerInput{ID: "tmp-1", Name: "Guest", Position: player.PositionForward})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = service.Save(ctx, coach, SavePlayerInput{Name: "Xavi", Number: 120, Position: player.PositionMidfielder})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = service.Save(ctx, coach, SavePlayerInput{Name: "Xavi", Position: player.PositionMidfielder, Image: "/tmp/x.png"})
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))

	_, err = service.Save(ctx, user.Principal{UserID: "u", Role: "fan", TeamID: "t1"}, SavePlayerInput{Name: "Xavi", Position: player.PositionMidfielder})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPlayerService_Delete_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo, nil, nil)

	repo.On("Delete", mock.Anything, "p1").Return(nil).Once()
	require.NoError(t, service.Delete(ctx, coach, "p1"))

	assert.True(t, errors.Is(service.Delete(ctx, coach, ""), ErrInvalidInput))
}

// stubStaffRepository is an in-memory staff.Repository.
type stubStaffRepository struct {
	mu    sync.Mutex
	saved []staff.Member
	err   error
}

func (r *stubStaffRepository) WatchByTeam(_ context.Context, _ string, onChange func([]staff.Member), _ func(error)) (docstore.Unsubscribe, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	items := append([]staff.Member(nil), r.saved...)
	r.mu.Unlock()
	onChange(items)
	return func() {}, nil
}

func (r *stubStaffRepository) Save(_ context.Context, m staff.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, m)
	return nil
}

func (r *stubStaffRepository) Delete(context.Context, string) error { return nil }

var _ staff.Repository = (*stubStaffRepository)(nil)

func TestStaffService_Save(t *testing.T) {
	t.Parallel()

	repo := &stubStaffRepository{}
	service := NewStaffService(repo, &fakeUploader{url: "https://cdn.test/s.png"}, fixedIDs{id: "s-1"})

	got, err := service.Save(context.Background(), coach, SaveStaffInput{Name: "Luis", Role: "Entrenador", Image: "luis.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, "https://cdn.test/s.png", got.Image)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "t1", repo.saved[0].TeamID)

	_, err = service.Save(context.Background(), coach, SaveStaffInput{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
