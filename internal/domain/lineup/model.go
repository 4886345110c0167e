package lineup

import (
	"time"

	"github.com/riskibarqy/club-roster/internal/domain/player"
)

// Role is a special on-pitch responsibility.
type Role string

const (
	RoleCaptain       Role = "captain"
	RoleFreeKicks     Role = "freeKicks"
	RoleFreeKicksNear Role = "freeKicksNear"
	RoleCorners       Role = "corners"
	RolePenalties     Role = "penalties"
)

// AllRoles is the canonical role order used for persistence and badge layout.
var AllRoles = []Role{RoleCaptain, RoleFreeKicks, RoleFreeKicksNear, RoleCorners, RolePenalties}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Alignment is the persisted per-match record. Empty strings stand for
// unoccupied slots and unassigned roles.
type Alignment struct {
	MatchID          string
	FormationID      string
	Lineup           map[string]string
	Substitutes      []string
	SpecialRoles     map[Role]string
	TemporaryPlayers []player.Player
	UpdatedAt        time.Time
}

func (a Alignment) Clone() Alignment {
	out := a
	out.Lineup = make(map[string]string, len(a.Lineup))
	for k, v := range a.Lineup {
		out.Lineup[k] = v
	}
	out.Substitutes = append([]string(nil), a.Substitutes...)
	out.SpecialRoles = make(map[Role]string, len(a.SpecialRoles))
	for k, v := range a.SpecialRoles {
		out.SpecialRoles[k] = v
	}
	out.TemporaryPlayers = append([]player.Player(nil), a.TemporaryPlayers...)
	return out
}
