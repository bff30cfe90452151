// Package objectstore keeps uploaded avatars in Google Cloud Storage.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const avatarCacheControl = "public, max-age=86400"

// NewClient creates a GCS client from a service account file, or from
// Application Default Credentials when credsPath is empty.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// AvatarStore writes avatars to one bucket that is publicly readable.
type AvatarStore struct {
	GCS    *storage.Client
	Bucket string

	// open starts an object write. The object is committed by Close and
	// abandoned when ctx is cancelled first.
	open func(ctx context.Context, name, contentType, owner string) io.WriteCloser
}

func NewAvatarStore(gcs *storage.Client, bucket string) *AvatarStore {
	s := &AvatarStore{GCS: gcs, Bucket: bucket}
	s.open = s.gcsWriter
	return s
}

func (s *AvatarStore) gcsWriter(ctx context.Context, name, contentType, owner string) io.WriteCloser {
	w := s.GCS.Bucket(s.Bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = avatarCacheControl
	w.Metadata = map[string]string{"owner": owner}
	return w
}

// Upload writes r under avatars/<userID>/<uuid><ext> and returns its public
// URL. A failed read leaves nothing in the bucket.
func (s *AvatarStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	name := ObjectPath(userID, filename)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.open(ctx, name, contentType, userID)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("upload avatar %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload avatar %s: %w", name, err)
	}
	return PublicURL(s.Bucket, name), nil
}

// ObjectPath builds a collision-free object name that keeps the extension.
func ObjectPath(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

// PublicURL is the anonymous-read URL of an object.
func PublicURL(bucket, objectPath string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + objectPath
}
