// Package gcs keeps uploaded images in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
)

// AssetStore addresses images by object path; the path is the opaque reference.
type AssetStore struct {
	client *storage.Client
	bucket string
}

func NewAssetStore(client *storage.Client, bucket string) *AssetStore {
	return &AssetStore{client: client, bucket: bucket}
}

func objectPath(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+ext)
}

func (a *AssetStore) Put(ctx context.Context, prefix, ext, contentType string, r io.Reader) (string, error) {
	ref := objectPath(prefix, ext)
	if err := helpers.UploadObject(ctx, a.client, a.bucket, ref, contentType, r); err != nil {
		return "", err
	}
	return ref, nil
}

func (a *AssetStore) Get(ctx context.Context, ref string) ([]byte, string, error) {
	b, ct, err := helpers.DownloadObject(ctx, a.client, a.bucket, ref)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, "", repository.ErrNotFound
		}
		return nil, "", err
	}
	return b, ct, nil
}

// URL returns the public address of ref for clients that bypass the API
func (a *AssetStore) URL(ref string) string {
	return helpers.PublicURL(a.bucket, ref)
}
