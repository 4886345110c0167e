package lineup

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/riskibarqy/club-roster/internal/domain/player"
	"github.com/riskibarqy/club-roster/internal/platform/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequentialIDs struct{ n int }

func (s *sequentialIDs) NewID() string {
	s.n++
	return fmt.Sprintf("%sguest-%d", id.TemporaryPrefix, s.n)
}

func rosterOf(n int) []player.Player {
	out := make([]player.Player, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, player.Player{
			ID:       fmt.Sprintf("p%d", i),
			TeamID:   "team-1",
			Name:     fmt.Sprintf("Player %d", i),
			Number:   i,
			Position: player.PositionMidfielder,
		})
	}
	return out
}

func TestEditor_AssignMovesInsteadOfDuplicating(t *testing.T) {
	e := NewEditor("m-1")
	p1 := player.Player{ID: "p1", Name: "Casillas"}

	require.True(t, e.Assign("GK", p1))
	require.True(t, e.Assign("DEF1", p1))

	assert.Empty(t, e.Occupant("GK"))
	assert.Equal(t, "p1", e.Occupant("DEF1"))
}

func TestEditor_AssignPullsFromSubstitutes(t *testing.T) {
	e := NewEditor("m-1")
	p2 := player.Player{ID: "p2"}

	require.True(t, e.AddSubstitute(p2))
	require.True(t, e.Assign("GK", p2))

	assert.NotContains(t, e.Substitutes(), "p2")
	assert.Equal(t, "p2", e.Occupant("GK"))
}

func TestEditor_InvalidInputIsNoOp(t *testing.T) {
	e := NewEditor("m-1")
	before := e.Snapshot()

	assert.False(t, e.Assign("SWEEPER", player.Player{ID: "p1"}))
	assert.False(t, e.Assign("GK", player.Player{ID: "  "}))
	assert.False(t, e.Clear("SWEEPER"))
	assert.False(t, e.AddSubstitute(player.Player{}))
	assert.False(t, e.SetFormation("2-2-6"))
	assert.False(t, e.SetRole("goalCelebrations", "p1"))

	assert.Equal(t, before, e.Snapshot())
}

func TestEditor_IdempotentRemovals(t *testing.T) {
	e := NewEditor("m-1")
	e.Assign("GK", player.Player{ID: "p1"})
	e.AddSubstitute(player.Player{ID: "p2"})
	before := e.Snapshot()

	assert.False(t, e.RemoveSubstitute("absent"))
	assert.False(t, e.Clear("DEF1"))
	assert.Equal(t, before, e.Snapshot())

	assert.True(t, e.Clear("GK"))
	assert.False(t, e.Clear("GK"))
	assert.Equal(t, []string{"p2"}, e.Substitutes())
}

func TestEditor_AddSubstituteRejectsLineupMembersAndDuplicates(t *testing.T) {
	e := NewEditor("m-1")
	e.Assign("FWD1", player.Player{ID: "p9"})

	assert.False(t, e.AddSubstitute(player.Player{ID: "p9"}))
	assert.True(t, e.AddSubstitute(player.Player{ID: "p12"}))
	assert.False(t, e.AddSubstitute(player.Player{ID: "p12"}))
	assert.Equal(t, []string{"p12"}, e.Substitutes())
}

func TestEditor_TemporaryPlayers(t *testing.T) {
	ids := &sequentialIDs{}
	e := NewEditor("m-1", WithIDGenerator(ids))
	roster := rosterOf(2)

	guest, ok := e.AddTemporaryPlayer(" Guest Striker ", 19, player.PositionForward)
	require.True(t, ok)
	assert.True(t, guest.Temporary)
	assert.True(t, id.IsTemporary(guest.ID))
	assert.Equal(t, "Guest Striker", guest.Name)

	_, ok = e.AddTemporaryPlayer("", 20, player.PositionForward)
	assert.False(t, ok)

	available := e.Available(roster)
	require.Len(t, available, 3)
	assert.Equal(t, guest.ID, available[2].ID)

	e.Assign("FWD1", guest)
	e.SetRole(RolePenalties, guest.ID)
	assert.Equal(t, "#19 Guest Striker", e.HolderName(RolePenalties, roster))

	require.True(t, e.RemoveTemporaryPlayer(guest.ID))
	assert.Empty(t, e.Occupant("FWD1"))
	assert.Equal(t, Unassigned, e.HolderName(RolePenalties, roster))
	assert.False(t, e.RemoveTemporaryPlayer(guest.ID))
}

func TestEditor_SetFormationMovesDisplacedToSubstitutes(t *testing.T) {
	e := NewEditor("m-1")
	e.Assign("GK", player.Player{ID: "p1"})
	e.Assign("FWD3", player.Player{ID: "p11"})
	e.Assign("MID3", player.Player{ID: "p8"})
	e.AddSubstitute(player.Player{ID: "p12"})

	require.True(t, e.SetFormation("442"))

	assert.Equal(t, "442", e.Formation().ID)
	assert.Equal(t, "p1", e.Occupant("GK"))
	assert.Equal(t, "p8", e.Occupant("MID3"))
	assert.Equal(t, []string{"p12", "p11"}, e.Substitutes())
	assert.False(t, e.SetFormation("442"))
}

func TestEditor_RolesAreIndependent(t *testing.T) {
	e := NewEditor("m-1")
	roster := rosterOf(3)
	e.Assign("GK", roster[0])
	e.Assign("MID1", roster[1])

	require.True(t, e.SetRole(RoleCaptain, "p1"))
	require.True(t, e.SetRole(RoleCorners, "p2"))
	require.True(t, e.SetRole(RolePenalties, "p2"))
	require.True(t, e.SetRole(RoleCaptain, "p2"))

	roles := e.Roles()
	holder, _ := roles.Holder(RoleCaptain)
	assert.Equal(t, "p2", holder)
	assert.Equal(t, []Role{RoleCaptain, RoleCorners, RolePenalties}, roles.RolesOf("p2"))
	assert.Empty(t, roles.RolesOf("p1"))

	assert.Equal(t, "#2 Player 2", e.HolderName(RoleCorners, roster))
	assert.Equal(t, Unassigned, e.HolderName(RoleFreeKicks, roster))

	// p3 holds a role without being selected: stale, shown as unassigned.
	e.SetRole(RoleFreeKicksNear, "p3")
	assert.Equal(t, Unassigned, e.HolderName(RoleFreeKicksNear, roster))

	require.True(t, e.SetRole(RoleCorners, ""))
	_, ok := e.Roles().Holder(RoleCorners)
	assert.False(t, ok)
}

func TestRestore_RepairsBrokenRecords(t *testing.T) {
	e := Restore(Alignment{
		MatchID:     "m-7",
		FormationID: "433",
		Lineup: map[string]string{
			"GK":    "p1",
			"DEF1":  "p1",
			"DEF2":  "p2",
			"WING9": "p5",
		},
		Substitutes:      []string{"p2", "p3", "p3"},
		SpecialRoles:     map[Role]string{RoleCaptain: "p2", "unknown": "p4"},
		TemporaryPlayers: []player.Player{{ID: "tmp-a", Name: "Guest", Position: player.PositionDefender}, {Name: "no id"}},
	})

	assert.Equal(t, "p1", e.Occupant("GK"))
	assert.Empty(t, e.Occupant("DEF1"))
	assert.Equal(t, "p2", e.Occupant("DEF2"))
	assert.Equal(t, []string{"p3", "p5"}, e.Substitutes())
	assert.Len(t, e.TemporaryPlayers(), 1)
	assert.True(t, e.TemporaryPlayers()[0].Temporary)
	holder, _ := e.Roles().Holder(RoleCaptain)
	assert.Equal(t, "p2", holder)
	assertInvariants(t, e)
}

func TestRestore_UnknownFormationFallsBack(t *testing.T) {
	e := Restore(Alignment{MatchID: "m-8", FormationID: "9-0-1", Lineup: map[string]string{"GK": "p1"}})
	assert.Equal(t, "433", e.Formation().ID)
	assert.Equal(t, "p1", e.Occupant("GK"))
}

func TestEditor_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	roster := rosterOf(18)
	formations := []string{"433", "442", "4231", "352", "532"}

	for run := 0; run < 50; run++ {
		e := NewEditor(fmt.Sprintf("m-%d", run), WithIDGenerator(&sequentialIDs{}))
		for step := 0; step < 200; step++ {
			p := roster[rng.Intn(len(roster))]
			slots := e.Formation().SlotIDs()
			switch rng.Intn(7) {
			case 0, 1:
				e.Assign(slots[rng.Intn(len(slots))], p)
			case 2:
				e.Clear(slots[rng.Intn(len(slots))])
			case 3:
				e.AddSubstitute(p)
			case 4:
				e.RemoveSubstitute(p.ID)
			case 5:
				e.SetFormation(formations[rng.Intn(len(formations))])
			case 6:
				e.SetRole(AllRoles[rng.Intn(len(AllRoles))], p.ID)
			}
			assertInvariants(t, e)

			available := e.Available(roster)
			for _, a := range available {
				assert.Empty(t, slotHolding(e, a.ID))
				assert.NotContains(t, e.Substitutes(), a.ID)
			}
			assert.Equal(t, len(roster), len(available)+countPlaced(e))
		}
	}
}

func assertInvariants(t *testing.T, e *Editor) {
	t.Helper()

	seen := make(map[string]string)
	for slotID, pid := range e.Lineup() {
		if pid == "" {
			continue
		}
		if other, dup := seen[pid]; dup {
			t.Fatalf("player %s occupies %s and %s", pid, other, slotID)
		}
		seen[pid] = slotID
	}
	subs := make(map[string]struct{})
	for _, pid := range e.Substitutes() {
		if _, inLineup := seen[pid]; inLineup {
			t.Fatalf("player %s is both in lineup and substitutes", pid)
		}
		if _, dup := subs[pid]; dup {
			t.Fatalf("player %s listed twice as substitute", pid)
		}
		subs[pid] = struct{}{}
	}
}

func slotHolding(e *Editor, playerID string) string {
	for slotID, pid := range e.Lineup() {
		if pid == playerID {
			return slotID
		}
	}
	return ""
}

func countPlaced(e *Editor) int {
	n := len(e.Substitutes())
	for _, pid := range e.Lineup() {
		if pid != "" {
			n++
		}
	}
	return n
}
