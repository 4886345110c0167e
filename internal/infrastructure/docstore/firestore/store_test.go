package firestore

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "teams/t1", relativePath("projects/p/databases/(default)/documents/teams/t1"))
	assert.Equal(t, "fines/f1", relativePath("fines/f1"))
}

func TestClassify(t *testing.T) {
	denied := classify(status.Error(codes.PermissionDenied, "nope"))
	assert.True(t, errors.Is(denied, ErrPermissionDenied))

	down := classify(status.Error(codes.Unavailable, "down"))
	assert.True(t, errors.Is(down, ErrUnavailable))

	other := classify(status.Error(codes.InvalidArgument, "bad"))
	assert.False(t, errors.Is(other, ErrPermissionDenied))
	assert.False(t, errors.Is(other, ErrUnavailable))
}

func TestOpenRequiresProject(t *testing.T) {
	_, err := Open(t.Context(), " ", nil)
	assert.Error(t, err)
}
