package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// ImageUploader stores a local image under folder and returns its durable URL.
type ImageUploader interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

const (
	folderPlayers = "players"
	folderStaff   = "staff"
	folderUsers   = "users"
)

// resolveImage returns ref unchanged when it is empty or already a URL and
// uploads it otherwise.
func resolveImage(ctx context.Context, uploader ImageUploader, ref, folder string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isRemoteURL(ref) {
		return ref, nil
	}
	if uploader == nil {
		return "", errors.Wrap(ErrDependencyUnavailable, "image upload is not configured")
	}
	url, err := uploader.Upload(ctx, ref, folder)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "upload %s image", folder), ErrDependencyUnavailable)
	}
	return url, nil
}

func isRemoteURL(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}
