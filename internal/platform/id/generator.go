package id

import (
	"strings"

	"github.com/google/uuid"
)

// TemporaryPrefix marks match-scoped guest player ids. Roster ids never carry it.
const TemporaryPrefix = "tmp-"

// Generator creates opaque IDs for roster documents.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct {
	prefix string
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewTemporaryGenerator issues ids that cannot collide with roster ids.
func NewTemporaryGenerator() *UUIDGenerator {
	return &UUIDGenerator{prefix: TemporaryPrefix}
}

func (g *UUIDGenerator) NewID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return g.prefix + raw
}

func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TemporaryPrefix)
}
