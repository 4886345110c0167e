package lineup

import "math"

// Unassigned is shown for roles without a resolvable holder.
const Unassigned = "Unassigned"

// RoleBoard maps each role to at most one player id. A player may hold
// several roles.
type RoleBoard struct {
	holders map[Role]string
}

func NewRoleBoard() RoleBoard {
	return RoleBoard{holders: make(map[Role]string, len(AllRoles))}
}

// Set overwrites the holder of role; an empty playerID clears it. Other roles
// are untouched.
func (b *RoleBoard) Set(role Role, playerID string) bool {
	if b.holders == nil {
		b.holders = make(map[Role]string, len(AllRoles))
	}
	if b.holders[role] == playerID {
		return false
	}
	if playerID == "" {
		delete(b.holders, role)
		return true
	}
	b.holders[role] = playerID
	return true
}

func (b RoleBoard) Holder(role Role) (string, bool) {
	id, ok := b.holders[role]
	return id, ok && id != ""
}

// RolesOf lists the roles held by playerID in AllRoles order.
func (b RoleBoard) RolesOf(playerID string) []Role {
	if playerID == "" {
		return nil
	}
	var out []Role
	for _, r := range AllRoles {
		if b.holders[r] == playerID {
			out = append(out, r)
		}
	}
	return out
}

// Map returns every role, with "" for unassigned ones.
func (b RoleBoard) Map() map[Role]string {
	out := make(map[Role]string, len(AllRoles))
	for _, r := range AllRoles {
		out[r] = b.holders[r]
	}
	return out
}

const (
	singleBadgeAngle = 60.0
	arcStartAngle    = 150.0
	arcSpan          = 120.0
)

// BadgeAngles places k badges around a player marker, in degrees clockwise
// from vertical: 60° for one badge, otherwise evenly from 150° down to 30°.
func BadgeAngles(k int) []float64 {
	switch {
	case k <= 0:
		return nil
	case k == 1:
		return []float64{singleBadgeAngle}
	}
	step := arcSpan / float64(k-1)
	out := make([]float64, k)
	for i := range out {
		out[i] = arcStartAngle - float64(i)*step
	}
	return out
}

// Badge is one role marker positioned relative to the player marker centre,
// in screen coordinates (y grows downwards).
type Badge struct {
	Role  Role
	Angle float64
	DX    float64
	DY    float64
}

// BadgeLayout positions the badges of every role held by playerID on a circle
// of the given radius. Badges follow AllRoles order, not the order the roles
// were assigned, so the layout depends only on which roles are held.
func (b RoleBoard) BadgeLayout(playerID string, radius float64) []Badge {
	roles := b.RolesOf(playerID)
	angles := BadgeAngles(len(roles))
	out := make([]Badge, len(roles))
	for i, r := range roles {
		rad := angles[i] * math.Pi / 180
		out[i] = Badge{
			Role:  r,
			Angle: angles[i],
			DX:    radius * math.Sin(rad),
			DY:    -radius * math.Cos(rad),
		}
	}
	return out
}
