package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/domain/lineup"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/domain/user"
	"github.com/riskibarqy/club-roster/internal/livequery"
	"github.com/riskibarqy/club-roster/internal/platform/id"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

type MatchService struct {
	repo      lineup.Repository
	persister *Persister
	ids       id.Generator
	logger    *logging.Logger
}

func NewMatchService(repo lineup.Repository, persister *Persister, ids id.Generator, logger *logging.Logger) *MatchService {
	if ids == nil {
		ids = id.NewTemporaryGenerator()
	}
	return &MatchService{
		repo:      repo,
		persister: persister,
		ids:       ids,
		logger:    logging.OrDefault(logger),
	}
}

// Open starts the editing session of matchID. The alignment subscription runs
// until the session is closed.
func (s *MatchService) Open(ctx context.Context, principal user.Principal, matchID string) (*MatchSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Open")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "open match"), ErrUnauthorized)
	}
	if !principal.CanManage() {
		return nil, errors.Wrapf(ErrForbidden, "role %s cannot edit lineups", principal.Role)
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "open match: match id is required")
	}

	logger := s.logger.Named("match_session").With("match_id", matchID, "user_id", principal.UserID)
	session := &MatchSession{
		matchID:   matchID,
		principal: principal,
		repo:      s.repo,
		persister: s.persister,
		remote:    livequery.NewCache[AlignmentSnapshot]("alignment", s.logger),
		logger:    logger,
		editor:    lineup.NewEditor(matchID, lineup.WithIDGenerator(s.ids), lineup.WithLogger(logger)),
		listeners: make(map[int]func()),
	}
	session.stopWatch = session.remote.Watch(session.onRemote)

	if err := session.remote.Activate(ctx, AlignmentSource(s.repo, matchID)); err != nil {
		session.Close()
		return nil, errors.Mark(errors.Wrapf(err, "open match %s", matchID), ErrDependencyUnavailable)
	}
	logger.InfoContext(ctx, "match session opened")
	return session, nil
}

// MatchSession edits one match alignment. Every change is applied locally
// first and then written in the background; the returned PendingWrite
// reports the outcome. A failed write is not rolled back. Remote snapshots
// replace local state only while no writes are pending; the latest one
// received meanwhile is applied when the last write settles.
type MatchSession struct {
	matchID   string
	principal user.Principal
	repo      lineup.Repository
	persister *Persister
	remote    *livequery.Cache[AlignmentSnapshot]
	logger    *logging.Logger
	stopWatch func()

	mu          sync.Mutex
	editor      *lineup.Editor
	pending     int
	lastErr     error
	lastVersion uint64
	closed      bool
	listeners   map[int]func()
	nextID      int
}

func (s *MatchSession) MatchID() string { return s.matchID }

func (s *MatchSession) Assign(ctx context.Context, slotID string, p player.Player) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.Assign(slotID, p) })
}

func (s *MatchSession) Clear(ctx context.Context, slotID string) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.Clear(slotID) })
}

func (s *MatchSession) AddSubstitute(ctx context.Context, p player.Player) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.AddSubstitute(p) })
}

func (s *MatchSession) RemoveSubstitute(ctx context.Context, playerID string) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.RemoveSubstitute(playerID) })
}

func (s *MatchSession) SetFormation(ctx context.Context, formationID string) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.SetFormation(formationID) })
}

func (s *MatchSession) SetRole(ctx context.Context, role lineup.Role, playerID string) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.SetRole(role, playerID) })
}

// AddTemporaryPlayer creates a guest for this match only. ok is false when
// the guest was rejected.
func (s *MatchSession) AddTemporaryPlayer(ctx context.Context, name string, number int, position player.Position) (guest player.Player, ok bool, write *PendingWrite) {
	write = s.mutate(ctx, func(e *lineup.Editor) bool {
		guest, ok = e.AddTemporaryPlayer(name, number, position)
		return ok
	})
	return guest, ok, write
}

func (s *MatchSession) RemoveTemporaryPlayer(ctx context.Context, playerID string) *PendingWrite {
	return s.mutate(ctx, func(e *lineup.Editor) bool { return e.RemoveTemporaryPlayer(playerID) })
}

// Retry writes the current local alignment again, typically after a failure.
func (s *MatchSession) Retry(ctx context.Context) *PendingWrite {
	return s.mutate(ctx, func(*lineup.Editor) bool { return true })
}

func (s *MatchSession) Snapshot() lineup.Alignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot()
}

// HolderName resolves role against roster and the match's guests.
func (s *MatchSession) HolderName(role lineup.Role, roster []player.Player) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.HolderName(role, roster)
}

// Available lists the roster and guest players not yet placed.
func (s *MatchSession) Available(roster []player.Player) []player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Available(roster)
}

// Badges lays out the role badges of playerID around its pitch marker.
func (s *MatchSession) Badges(playerID string, radius float64) []lineup.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Roles().BadgeLayout(playerID, radius)
}

// Pending counts this session's unsettled writes.
func (s *MatchSession) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastWriteError is the most recent write failure, cleared by the next
// successful write.
func (s *MatchSession) LastWriteError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// RemoteState exposes the alignment subscription state.
func (s *MatchSession) RemoteState() livequery.State[AlignmentSnapshot] {
	return s.remote.State()
}

// Watch registers fn for local changes, settled writes and applied remote
// snapshots. fn must not call back into the session's mutators.
func (s *MatchSession) Watch(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Close ends the alignment subscription. Writes already submitted still run.
func (s *MatchSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.stopWatch != nil {
		s.stopWatch()
	}
	s.remote.Deactivate()
}

func (s *MatchSession) mutate(ctx context.Context, fn func(*lineup.Editor) bool) *PendingWrite {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "change ignored on closed match session")
		return nil
	}
	if !fn(s.editor) {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.editor.Snapshot()
	s.pending++
	s.mu.Unlock()
	s.notify()

	return s.persister.submit(ctx, "alignment:"+s.matchID, func(ctx context.Context) error {
		return s.repo.Save(ctx, snapshot)
	}, s.settled)
}

func (s *MatchSession) settled(err error) {
	s.mu.Lock()
	s.pending--
	s.lastErr = err
	if s.pending == 0 {
		s.applyRemoteLocked(s.remote.State())
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("alignment write failed, keeping local changes", "error", err)
	}
	s.notify()
}

func (s *MatchSession) onRemote(st livequery.State[AlignmentSnapshot]) {
	if !st.Ready || st.Err != nil {
		return
	}

	s.mu.Lock()
	if s.pending > 0 {
		s.mu.Unlock()
		s.logger.Debug("remote alignment deferred while writes are pending", "version", st.Version)
		return
	}
	applied := s.applyRemoteLocked(st)
	s.mu.Unlock()
	if applied {
		s.notify()
	}
}

// applyRemoteLocked loads st unless it was already applied. A snapshot
// deferred by pending writes is picked up here once they settle.
func (s *MatchSession) applyRemoteLocked(st livequery.State[AlignmentSnapshot]) bool {
	if s.closed || !st.Ready || st.Err != nil || st.Version <= s.lastVersion {
		return false
	}
	s.lastVersion = st.Version
	if st.Data.Exists {
		s.editor.Load(st.Data.Alignment)
	}
	return true
}

func (s *MatchSession) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
