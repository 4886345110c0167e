// Package gcs uploads club images to a Cloud Storage bucket and returns their
// public URL.
package gcs

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

const publicHost = "https://storage.googleapis.com"

// MaxImageBytes bounds a single upload.
const MaxImageBytes = 10 << 20

var ErrNotImage = errors.New("file is not an image")

// objectWriter opens a writer for one object. *storage.BucketHandle is adapted
// to it by bucketWriter.
type objectWriter interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
}

type bucketWriter struct {
	bucket *storage.BucketHandle
}

func (b bucketWriter) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	return w
}

type Uploader struct {
	bucketName string
	objects    objectWriter
	timeout    time.Duration
	newName    func() string
	logger     *logging.Logger
}

// New uploads into bucketName through client.
func New(client *storage.Client, bucketName string, timeout time.Duration, logger *logging.Logger) *Uploader {
	return newUploader(bucketWriter{bucket: client.Bucket(bucketName)}, bucketName, timeout, logger)
}

func newUploader(objects objectWriter, bucketName string, timeout time.Duration, logger *logging.Logger) *Uploader {
	return &Uploader{
		bucketName: bucketName,
		objects:    objects,
		timeout:    timeout,
		newName:    func() string { return uuid.NewString() },
		logger:     logging.OrDefault(logger).Named("upload.gcs"),
	}
}

// Upload stores the image at localPath under folder and returns its URL.
func (u *Uploader) Upload(ctx context.Context, localPath, folder string) (string, error) {
	content, err := readImage(localPath)
	if err != nil {
		return "", err
	}
	mtype := mimetype.Detect(content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.Wrapf(ErrNotImage, "%s detected as %s", localPath, mtype.String())
	}

	object := path.Join(strings.Trim(folder, "/"), u.newName()+mtype.Extension())
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	w := u.objects.NewWriter(ctx, object, mtype.String())
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", errors.Wrapf(err, "write object %s", object)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "finalize object %s", object)
	}

	url := publicHost + "/" + u.bucketName + "/" + object
	u.logger.InfoContext(ctx, "image uploaded", "object", object, "content_type", mtype.String(), "bytes", len(content))
	return url, nil
}

func readImage(localPath string) ([]byte, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", localPath)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", localPath)
	}
	if len(content) > MaxImageBytes {
		return nil, errors.Newf("%s exceeds %d bytes", localPath, MaxImageBytes)
	}
	return content, nil
}
