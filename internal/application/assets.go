package application

import (
	"context"
	"errors"
	"io"
	"strings"

	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

var errAssetsUnavailable = errors.New("asset store not configured")

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// storeImage uploads r under prefix and returns the opaque reference. The
// stored extension always comes from the content type, never the client's filename.
func storeImage(ctx context.Context, assets AssetStore, prefix, contentType string, r io.Reader) (string, error) {
	if assets == nil {
		return "", errAssetsUnavailable
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return assets.Put(ctx, prefix, ext, contentType, r)
}

// AssetService exposes stored images by reference
type AssetService struct {
	Assets AssetStore
}

func NewAssetService(assets AssetStore) *AssetService {
	return &AssetService{Assets: assets}
}

func (s *AssetService) Get(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimPrefix(ref, "/")
	if s.Assets == nil || ref == "" || strings.Contains(ref, "..") {
		return nil, "", ErrNotFound
	}
	b, ct, err := s.Assets.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return b, ct, nil
}
