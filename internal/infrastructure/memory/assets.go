package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type asset struct {
	data        []byte
	contentType string
}

// AssetStore keeps uploaded images in memory, keyed by reference
type AssetStore struct {
	mu     sync.RWMutex
	assets map[string]asset
}

func NewAssetStore() *AssetStore {
	return &AssetStore{assets: map[string]asset{}}
}

func (a *AssetStore) Put(_ context.Context, prefix, ext, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	ref := prefix + "/" + uuid.NewString() + ext
	a.mu.Lock()
	a.assets[ref] = asset{data: buf.Bytes(), contentType: contentType}
	a.mu.Unlock()
	return ref, nil
}

func (a *AssetStore) Get(_ context.Context, ref string) ([]byte, string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.assets[ref]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	return append([]byte(nil), v.data...), v.contentType, nil
}
