package docs

import "time"

const (
	collectionPlayers    = "players"
	collectionStaff      = "staff"
	collectionFines      = "fines"
	collectionTeams      = "teams"
	collectionUsers      = "users"
	collectionAlignments = "alignments"
)

type playerRecord struct {
	ID       string `json:"id" validate:"required"`
	TeamID   string `json:"teamId" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Number   int    `json:"number" validate:"gte=0,lte=99"`
	Position string `json:"position" validate:"oneof=GK DEF MID FWD"`
	Image    string `json:"image,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Foot     string `json:"foot,omitempty" validate:"omitempty,oneof=left right both"`
}

type staffRecord struct {
	ID     string `json:"id" validate:"required"`
	TeamID string `json:"teamId" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Role   string `json:"role,omitempty"`
	Image  string `json:"image,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type fineRecord struct {
	ID        string       `json:"id" validate:"required"`
	PlayerID  string       `json:"playerId" validate:"required"`
	TeamID    string       `json:"teamId,omitempty"`
	Reason    string       `json:"reason" validate:"required"`
	Amount    float64      `json:"amount" validate:"gt=0"`
	Date      sortableTime `json:"date"`
	Paid      bool         `json:"paid"`
	CreatedBy string       `json:"createdBy,omitempty"`
}

// sortableTime is stored as a fixed-width UTC timestamp, so ordering by the
// field's string value is chronological. Any RFC 3339 value decodes.
type sortableTime time.Time

const sortableTimeLayout = "2006-01-02T15:04:05.000000000Z"

func (t sortableTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(sortableTimeLayout) + `"`), nil
}

func (t *sortableTime) UnmarshalJSON(b []byte) error {
	var parsed time.Time
	if err := parsed.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = sortableTime(parsed.UTC())
	return nil
}

type teamRecord struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ShortName   string `json:"shortName,omitempty"`
	Crest       string `json:"crest,omitempty"`
	City        string `json:"city,omitempty"`
	FoundedYear int    `json:"foundedYear,omitempty"`
}

type userRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role" validate:"oneof=admin coach"`
	TeamID       string `json:"teamId" validate:"required"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

type temporaryPlayerRecord struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

// alignmentRecord is the per-match document. Null lineup and role values mean
// an empty slot and an unassigned role.
type alignmentRecord struct {
	MatchID          string                  `json:"matchId"`
	FormationID      string                  `json:"formationId"`
	Lineup           map[string]*string      `json:"lineup"`
	Substitutes      []string                `json:"substitutes"`
	SpecialRoles     map[string]*string      `json:"specialRoles"`
	TemporaryPlayers []temporaryPlayerRecord `json:"temporaryPlayers" validate:"dive"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}
