package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/lineup"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	lineupmock "github.com/riskibarqy/club-roster/internal/mocks/domain/lineup"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var coach = user.Principal{UserID: "u-coach", Role: user.RoleCoach, TeamID: "t1"}

// alignmentFeed captures the live callbacks handed to WatchByMatch.
type alignmentFeed struct {
	mu           sync.Mutex
	onChange     func(lineup.Alignment, bool)
	unsubscribed atomic.Int32
}

func (f *alignmentFeed) watch(_ context.Context, _ string, onChange func(lineup.Alignment, bool), _ func(error)) (docstore.Unsubscribe, error) {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	return func() { f.unsubscribed.Add(1) }, nil
}

func (f *alignmentFeed) push(a lineup.Alignment) {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	fn(a, true)
}

func openTestSession(t *testing.T, repo *lineupmock.Repository) (*MatchSession, *alignmentFeed) {
	t.Helper()
	feed := &alignmentFeed{}
	repo.On("WatchByMatch", mock.Anything, "m1", mock.Anything, mock.Anything).Return(feed.watch).Once()

	persister, err := NewPersister(PersisterConfig{Workers: 2, Timeout: time.Second, Breaker: resilience.BreakerConfig{}}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = persister.Close(time.Second) })

	session, err := NewMatchService(repo, persister, nil, nil).Open(context.Background(), coach, "m1")
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session, feed
}

func TestMatchSession_AssignIsOptimisticAndPersisted(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, _ := openTestSession(t, repo)

	var saved lineup.Alignment
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(lineup.Alignment) }).
		Return(nil).
		Once()

	w := session.Assign(context.Background(), "GK", player.Player{ID: "p1", Name: "Iker", Number: 1})
	require.NotNil(t, w)
	assert.Equal(t, "p1", session.Snapshot().Lineup["GK"])

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, "m1", saved.MatchID)
	assert.Equal(t, "p1", saved.Lineup["GK"])
	assert.Equal(t, 0, session.Pending())
	assert.NoError(t, session.LastWriteError())
}

func TestMatchSession_NoOpDoesNotWrite(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, _ := openTestSession(t, repo)

	assert.Nil(t, session.Clear(context.Background(), "GK"))
	assert.Nil(t, session.RemoveSubstitute(context.Background(), "ghost"))
	assert.Nil(t, session.SetFormation(context.Background(), "999"))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMatchSession_WriteFailureKeepsLocalState(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, _ := openTestSession(t, repo)

	denied := errors.New("permission denied")
	repo.On("Save", mock.Anything, mock.Anything).Return(denied).Once()

	w := session.AddSubstitute(context.Background(), player.Player{ID: "p7"})
	err := w.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)

	assert.Equal(t, []string{"p7"}, session.Snapshot().Substitutes)
	assert.ErrorIs(t, session.LastWriteError(), denied)

	repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, session.Retry(context.Background()).Wait(context.Background()))
	assert.NoError(t, session.LastWriteError())
}

func TestMatchSession_RemoteSnapshotReplacesLocalWhenIdle(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, feed := openTestSession(t, repo)

	changes := 0
	cancel := session.Watch(func() { changes++ })
	defer cancel()

	feed.push(lineup.Alignment{
		MatchID:      "m1",
		FormationID:  "442",
		Lineup:       map[string]string{"GK": "p1", "FWD2": "p9"},
		Substitutes:  []string{"p5"},
		SpecialRoles: map[lineup.Role]string{lineup.RoleCaptain: "p9"},
	})

	snap := session.Snapshot()
	assert.Equal(t, "442", snap.FormationID)
	assert.Equal(t, "p9", snap.Lineup["FWD2"])
	assert.Equal(t, []string{"p5"}, snap.Substitutes)
	assert.Equal(t, 1, changes)

	roster := []player.Player{{ID: "p1", Name: "Iker", Number: 1}, {ID: "p5", Name: "Pep", Number: 5}, {ID: "p9", Name: "Raul", Number: 9}, {ID: "p3", Name: "Carles", Number: 3}}
	assert.Equal(t, "#9 Raul", session.HolderName(lineup.RoleCaptain, roster))
	assert.Equal(t, lineup.Unassigned, session.HolderName(lineup.RolePenalties, roster))
	assert.Equal(t, []player.Player{roster[3]}, session.Available(roster))
	assert.Len(t, session.Badges("p9", 10), 1)
}

func TestMatchSession_RemoteSnapshotAppliedOnceWritesSettle(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, feed := openTestSession(t, repo)

	release := make(chan struct{})
	started := make(chan struct{})
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).
		Once()

	w := session.Assign(context.Background(), "GK", player.Player{ID: "p1"})
	<-started

	feed.push(lineup.Alignment{MatchID: "m1", FormationID: "433", Lineup: map[string]string{"GK": "other"}})
	assert.Equal(t, "p1", session.Snapshot().Lineup["GK"])

	close(release)
	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, "other", session.Snapshot().Lineup["GK"])
	assert.Equal(t, 0, session.Pending())
}

func TestMatchSession_ConcurrentEditorWriteWinsAfterOwnWrite(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, feed := openTestSession(t, repo)

	changes := 0
	cancel := session.Watch(func() { changes++ })
	defer cancel()

	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			feed.push(lineup.Alignment{
				MatchID:     "m1",
				FormationID: "442",
				Lineup:      map[string]string{"GK": "p9"},
			})
		}).
		Return(nil).
		Once()

	require.NoError(t, session.Assign(context.Background(), "GK", player.Player{ID: "p1"}).Wait(context.Background()))

	snap := session.Snapshot()
	assert.Equal(t, "442", snap.FormationID)
	assert.Equal(t, "p9", snap.Lineup["GK"])
	assert.Equal(t, uint64(1), session.RemoteState().Version)
	assert.GreaterOrEqual(t, changes, 2)

	feed.push(lineup.Alignment{MatchID: "m1", FormationID: "442", Lineup: map[string]string{"GK": "p9"}})
	assert.Equal(t, uint64(2), session.RemoteState().Version)
	assert.Equal(t, "p9", session.Snapshot().Lineup["GK"])
}

func TestMatchSession_TemporaryPlayers(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, _ := openTestSession(t, repo)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	guest, ok, w := session.AddTemporaryPlayer(context.Background(), "Guest", 23, player.PositionMidfielder)
	require.True(t, ok)
	require.NoError(t, w.Wait(context.Background()))
	assert.True(t, guest.Temporary)

	require.NoError(t, session.Assign(context.Background(), "MID1", guest).Wait(context.Background()))
	require.NoError(t, session.SetRole(context.Background(), lineup.RoleCorners, guest.ID).Wait(context.Background()))
	assert.Equal(t, "#23 Guest", session.HolderName(lineup.RoleCorners, nil))

	require.NoError(t, session.RemoveTemporaryPlayer(context.Background(), guest.ID).Wait(context.Background()))
	assert.Equal(t, lineup.Unassigned, session.HolderName(lineup.RoleCorners, nil))
	assert.Empty(t, session.Snapshot().Lineup["MID1"])

	_, ok, w = session.AddTemporaryPlayer(context.Background(), "", 5, player.PositionDefender)
	assert.False(t, ok)
	assert.Nil(t, w)
}

func TestMatchSession_CloseTearsDownOnce(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	session, feed := openTestSession(t, repo)

	session.Close()
	session.Close()
	assert.EqualValues(t, 1, feed.unsubscribed.Load())
	assert.Nil(t, session.Assign(context.Background(), "GK", player.Player{ID: "p1"}))
}

func TestMatchService_OpenRejectsBadInput(t *testing.T) {
	repo := lineupmock.NewRepository(t)
	persister, err := NewPersister(PersisterConfig{}, nil)
	require.NoError(t, err)
	defer persister.Close(time.Second)
	svc := NewMatchService(repo, persister, nil, nil)

	_, err = svc.Open(context.Background(), user.Principal{}, "m1")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.Open(context.Background(), coach, " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	repo.On("WatchByMatch", mock.Anything, "m2", mock.Anything, mock.Anything).Return(nil, errors.New("offline")).Once()
	_, err = svc.Open(context.Background(), coach, "m2")
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))
}
