package lineup

import (
	"sort"
	"strings"

	"github.com/riskibarqy/club-roster/internal/domain/formation"
	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/platform/id"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// Editor owns the lineup, substitute pool, temporary players and role board of
// the match open for editing. Every operation is total: invalid input is
// logged and ignored. Each mutating call reports whether state changed.
//
// Invariants kept after every call:
//   - a player id occupies at most one slot
//   - lineup and substitute pool never share a player id
//   - each role has at most one holder
//
// Editor is not safe for concurrent use.
type Editor struct {
	matchID   string
	formation formation.Formation
	slots     map[string]string
	subs      []string
	temps     []player.Player
	roles     RoleBoard
	ids       id.Generator
	logger    *logging.Logger
}

type EditorOption func(*Editor)

func WithIDGenerator(g id.Generator) EditorOption {
	return func(e *Editor) {
		if g != nil {
			e.ids = g
		}
	}
}

func WithLogger(logger *logging.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEditor starts an empty alignment on the default formation.
func NewEditor(matchID string, opts ...EditorOption) *Editor {
	e := &Editor{
		matchID:   matchID,
		formation: formation.MustGet(formation.DefaultID),
		roles:     NewRoleBoard(),
		ids:       id.NewTemporaryGenerator(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("match_id", matchID)
	e.slots = emptySlots(e.formation)
	return e
}

// Restore rebuilds an editor from a stored alignment, repairing any record
// that breaks the invariants (first occurrence wins, strays go to the pool).
func Restore(a Alignment, opts ...EditorOption) *Editor {
	e := NewEditor(a.MatchID, opts...)
	e.Load(a)
	return e
}

// Load replaces the whole editing state with a.
func (e *Editor) Load(a Alignment) {
	f, ok := formation.Get(a.FormationID)
	if !ok {
		if a.FormationID != "" {
			e.logger.Warn("stored alignment has unknown formation, using default", "formation_id", a.FormationID)
		}
		f = formation.MustGet(formation.DefaultID)
	}
	e.formation = f
	e.slots = emptySlots(f)
	e.subs = nil
	e.temps = nil
	e.roles = NewRoleBoard()

	for _, p := range a.TemporaryPlayers {
		if strings.TrimSpace(p.ID) == "" {
			e.logger.Warn("dropping temporary player without id", "name", p.Name)
			continue
		}
		p.Temporary = true
		e.rememberTemporary(p)
	}

	placed := make(map[string]struct{})
	var strays []string
	for _, slotID := range f.SlotIDs() {
		pid := a.Lineup[slotID]
		if pid == "" {
			continue
		}
		if _, dup := placed[pid]; dup {
			e.logger.Warn("stored alignment repeats a player across slots", "player_id", pid, "slot_id", slotID)
			continue
		}
		placed[pid] = struct{}{}
		e.slots[slotID] = pid
	}
	strayIDs := make([]string, 0, len(a.Lineup))
	for slotID, pid := range a.Lineup {
		if pid != "" && !f.HasSlot(slotID) {
			strayIDs = append(strayIDs, slotID)
		}
	}
	sort.Strings(strayIDs)
	for _, slotID := range strayIDs {
		strays = append(strays, a.Lineup[slotID])
	}
	for _, pid := range append(append([]string(nil), a.Substitutes...), strays...) {
		e.AddSubstitute(player.Player{ID: pid})
	}
	for _, r := range AllRoles {
		if pid := a.SpecialRoles[r]; pid != "" {
			e.roles.Set(r, pid)
		}
	}
}

func (e *Editor) MatchID() string { return e.matchID }

func (e *Editor) Formation() formation.Formation { return e.formation }

// Occupant returns the player id in slotID, "" when empty.
func (e *Editor) Occupant(slotID string) string { return e.slots[slotID] }

func (e *Editor) Lineup() map[string]string {
	out := make(map[string]string, len(e.slots))
	for k, v := range e.slots {
		out[k] = v
	}
	return out
}

func (e *Editor) Substitutes() []string { return append([]string(nil), e.subs...) }

func (e *Editor) TemporaryPlayers() []player.Player { return append([]player.Player(nil), e.temps...) }

func (e *Editor) Roles() RoleBoard {
	return RoleBoard{holders: e.roles.Map()}
}

// Assign moves p into slotID. A player already in another slot is moved, not
// duplicated; a substitute leaves the pool. The previous occupant of slotID
// becomes unassigned.
func (e *Editor) Assign(slotID string, p player.Player) bool {
	if !e.formation.HasSlot(slotID) {
		e.logger.Warn("assign ignored: unknown slot", "slot_id", slotID, "formation_id", e.formation.ID)
		return false
	}
	if strings.TrimSpace(p.ID) == "" {
		e.logger.Warn("assign ignored: player without id", "slot_id", slotID)
		return false
	}
	if e.slots[slotID] == p.ID {
		return false
	}

	if current := e.slotOf(p.ID); current != "" {
		e.slots[current] = ""
	}
	e.removeSub(p.ID)
	if p.Temporary {
		e.rememberTemporary(p)
	}
	e.slots[slotID] = p.ID
	return true
}

// Clear empties slotID. The substitute pool is unaffected.
func (e *Editor) Clear(slotID string) bool {
	if !e.formation.HasSlot(slotID) {
		e.logger.Warn("clear ignored: unknown slot", "slot_id", slotID, "formation_id", e.formation.ID)
		return false
	}
	if e.slots[slotID] == "" {
		return false
	}
	e.slots[slotID] = ""
	return true
}

// AddSubstitute appends p unless it is already in the pool or the lineup.
func (e *Editor) AddSubstitute(p player.Player) bool {
	if strings.TrimSpace(p.ID) == "" {
		e.logger.Warn("add substitute ignored: player without id")
		return false
	}
	if e.isSub(p.ID) || e.slotOf(p.ID) != "" {
		return false
	}
	if p.Temporary {
		e.rememberTemporary(p)
	}
	e.subs = append(e.subs, p.ID)
	return true
}

func (e *Editor) RemoveSubstitute(playerID string) bool {
	return e.removeSub(playerID)
}

// AddTemporaryPlayer creates a match-only guest player. It becomes assignable
// for this match and is never written to the roster collection.
func (e *Editor) AddTemporaryPlayer(name string, number int, position player.Position) (player.Player, bool) {
	name = strings.TrimSpace(name)
	p := player.Player{
		ID:        e.ids.NewID(),
		Name:      name,
		Number:    number,
		Position:  position,
		Temporary: true,
	}
	if err := p.Validate(); err != nil {
		e.logger.Warn("temporary player rejected", "name", name, "error", err)
		return player.Player{}, false
	}
	e.temps = append(e.temps, p)
	return p, true
}

// RemoveTemporaryPlayer forgets a guest player and frees every place it held.
// Role references to it become stale and resolve as Unassigned.
func (e *Editor) RemoveTemporaryPlayer(playerID string) bool {
	idx := -1
	for i, p := range e.temps {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	e.temps = append(e.temps[:idx], e.temps[idx+1:]...)
	if slot := e.slotOf(playerID); slot != "" {
		e.slots[slot] = ""
	}
	e.removeSub(playerID)
	return true
}

// SetFormation switches formation. Occupants of slots missing from the new
// formation move to the substitute pool so no selection is lost.
func (e *Editor) SetFormation(formationID string) bool {
	next, ok := formation.Get(formationID)
	if !ok {
		e.logger.Warn("set formation ignored: unknown formation", "formation_id", formationID)
		return false
	}
	if next.ID == e.formation.ID {
		return false
	}

	slots := emptySlots(next)
	var displaced []string
	for _, slotID := range e.formation.SlotIDs() {
		pid := e.slots[slotID]
		if pid == "" {
			continue
		}
		if next.HasSlot(slotID) {
			slots[slotID] = pid
			continue
		}
		displaced = append(displaced, pid)
	}

	e.formation = next
	e.slots = slots
	for _, pid := range displaced {
		e.subs = append(e.subs, pid)
	}
	return true
}

// SetRole overwrites the holder of role; "" clears it. The holder need not be
// in the lineup.
func (e *Editor) SetRole(role Role, playerID string) bool {
	if !role.Valid() {
		e.logger.Warn("set role ignored: unknown role", "role", string(role))
		return false
	}
	return e.roles.Set(role, strings.TrimSpace(playerID))
}

// HolderName resolves the holder of role to a display label. Holders that are
// not in the lineup, the pool or the temporary players, or that cannot be
// found in roster, resolve to Unassigned.
func (e *Editor) HolderName(role Role, roster []player.Player) string {
	pid, ok := e.roles.Holder(role)
	if !ok {
		return Unassigned
	}
	if e.slotOf(pid) == "" && !e.isSub(pid) && !e.isTemporary(pid) {
		return Unassigned
	}
	p, found := player.Index(roster, e.temps)[pid]
	if !found {
		return Unassigned
	}
	return p.Label()
}

// Available lists roster and temporary players not yet placed.
func (e *Editor) Available(roster []player.Player) []player.Player {
	return AvailablePlayers(e.slots, e.subs, e.temps, roster)
}

// Snapshot returns the alignment record for persistence.
func (e *Editor) Snapshot() Alignment {
	return Alignment{
		MatchID:          e.matchID,
		FormationID:      e.formation.ID,
		Lineup:           e.Lineup(),
		Substitutes:      e.Substitutes(),
		SpecialRoles:     e.roles.Map(),
		TemporaryPlayers: e.TemporaryPlayers(),
	}
}

func (e *Editor) slotOf(playerID string) string {
	for slotID, pid := range e.slots {
		if pid == playerID {
			return slotID
		}
	}
	return ""
}

func (e *Editor) isSub(playerID string) bool {
	for _, id := range e.subs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (e *Editor) isTemporary(playerID string) bool {
	for _, p := range e.temps {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (e *Editor) removeSub(playerID string) bool {
	for i, id := range e.subs {
		if id == playerID {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Editor) rememberTemporary(p player.Player) {
	if e.isTemporary(p.ID) {
		return
	}
	p.Temporary = true
	e.temps = append(e.temps, p)
}

func emptySlots(f formation.Formation) map[string]string {
	out := make(map[string]string, len(f.Slots))
	for _, s := range f.Slots {
		out[s.ID] = ""
	}
	return out
}
