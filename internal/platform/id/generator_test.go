package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerators(t *testing.T) {
	roster := NewUUIDGenerator()
	temp := NewTemporaryGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		r := roster.NewID()
		tmp := temp.NewID()
		assert.False(t, IsTemporary(r))
		assert.True(t, IsTemporary(tmp))
		assert.Len(t, r, 32)
		seen[r] = struct{}{}
		seen[tmp] = struct{}{}
	}
	assert.Len(t, seen, 200)
}
