package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/club-roster/internal/domain/fine"
	memstore "github.com/riskibarqy/club-roster/internal/infrastructure/docstore/memory"
	"github.com/riskibarqy/club-roster/internal/infrastructure/repository/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinesView_KeepsFollowingAfterCallerContextEnds(t *testing.T) {
	store := memstore.NewStore(nil)
	t.Cleanup(store.Close)
	repo := docs.NewFineRepository(store, nil)
	view := NewFinesView(repo, nil)
	t.Cleanup(view.Close)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, view.Select(ctx, coach, "p1"))
	require.Eventually(t, func() bool { return view.State().Ready }, time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, view.Select(context.Background(), coach, "p1"))
	assert.Equal(t, 1, store.LiveQueries())

	require.NoError(t, repo.Save(context.Background(), fine.Fine{
		ID: "f1", PlayerID: "p1", TeamID: "t1", Reason: "late", Amount: 5,
		Date: time.Date(2026, 4, 2, 19, 0, 0, 0, time.UTC),
	}))
	require.Eventually(t, func() bool { return len(view.State().Fines) == 1 }, time.Second, 5*time.Millisecond)

	st := view.State()
	assert.NoError(t, st.Err)
	assert.Equal(t, fine.Stats{Count: 1, PendingCount: 1, PendingTotal: 5}, st.Stats)

	view.Close()
	assert.Equal(t, 0, store.LiveQueries())
}
